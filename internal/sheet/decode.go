package sheet

import (
	"strings"
	"time"

	"eduexercise/internal/question"

	"github.com/google/uuid"
)

// Decoder turns spreadsheet rows into questions. The zero value is not
// usable; build one with NewDecoder.
type Decoder struct {
	NewID func() string
	Now   func() time.Time
	// DefaultToken replaces a blank token cell before upper-casing.
	DefaultToken string
	// Subject is assigned when the schema has no subject column.
	Subject string
}

type DecodeResult struct {
	Schema    Schema
	Questions []question.Question
	// Skipped holds 1-based sheet row numbers of rows that were blank or
	// had no question text.
	Skipped   []int
	TotalRows int
}

func NewDecoder() *Decoder {
	return &Decoder{
		NewID:        func() string { return "q_" + uuid.NewString() },
		Now:          time.Now,
		DefaultToken: question.DefaultToken,
	}
}

// Decode reads a full sheet. rows[0] is the header and decides the schema;
// every later row is decoded independently and a bad row never fails the
// batch.
func (d *Decoder) Decode(rows [][]any) DecodeResult {
	if len(rows) == 0 {
		return DecodeResult{Schema: V1, Questions: []question.Question{}, Skipped: []int{}}
	}

	res := DecodeResult{
		Schema:    Detect(rows[0]),
		Questions: make([]question.Question, 0, len(rows)-1),
		Skipped:   make([]int, 0),
		TotalRows: len(rows) - 1,
	}
	for i, row := range rows[1:] {
		q, ok := d.DecodeRow(res.Schema, row, i)
		if !ok {
			res.Skipped = append(res.Skipped, i+2)
			continue
		}
		res.Questions = append(res.Questions, q)
	}
	return res
}

// DecodeRow maps one data row; index is its zero-based position below the
// header. ok is false when the row should be discarded.
func (d *Decoder) DecodeRow(s Schema, row []any, index int) (question.Question, bool) {
	if isRowEmpty(row) {
		return question.Question{}, false
	}
	get := func(f Field) string {
		idx, ok := s.Index(f)
		if !ok {
			return ""
		}
		return strings.TrimSpace(cellString(row, idx))
	}

	text := get(FieldText)
	if text == "" {
		return question.Question{}, false
	}

	qType := question.ClassifyLabel(get(FieldType))

	order := index + 1
	if idx, ok := s.Index(FieldOrder); ok {
		if n, ok := cellInt(row, idx); ok && n > 0 {
			order = n
		}
	}

	level := get(FieldLevel)
	if level == "" {
		level = question.DefaultLevel
	}

	token := get(FieldToken)
	if token == "" {
		token = d.DefaultToken
	}
	if token == "" {
		token = question.DefaultToken
	}

	subject := d.Subject
	if s.Has(FieldSubject) {
		subject = get(FieldSubject)
		if subject == "" {
			subject = question.DefaultSubject
		}
	}

	options, optionImages := decodeOptions(s, row)

	return question.Question{
		ID:            d.NewID(),
		Order:         order,
		Type:          qType,
		Level:         level,
		Material:      get(FieldMaterial),
		Subject:       subject,
		Text:          text,
		Image:         get(FieldImage),
		Options:       options,
		OptionImages:  optionImages,
		CorrectAnswer: question.DecodeAnswerKey(qType, get(FieldAnswerKey)),
		Explanation:   get(FieldExplanation),
		QuizToken:     strings.ToUpper(token),
		Phase:         question.DefaultPhase,
		IsDeleted:     false,
		CreatedAt:     d.Now(),
	}, true
}

// decodeOptions reads option cells. Without KeepOptionSlots blank cells are
// dropped, so a missing B moves C into the B position. With it every
// position up to the last filled text or image is kept, blanks included.
func decodeOptions(s Schema, row []any) ([]string, []string) {
	text := func(f Field) string {
		idx, ok := s.Index(f)
		if !ok {
			return ""
		}
		return strings.TrimSpace(cellString(row, idx))
	}

	if !s.KeepOptionSlots {
		options := make([]string, 0, question.MaxOptions)
		for i := 0; i < question.MaxOptions; i++ {
			if v := text(OptionField(i)); v != "" {
				options = append(options, v)
			}
		}
		return options, nil
	}

	options := make([]string, question.MaxOptions)
	images := make([]string, question.MaxOptions)
	last := -1
	for i := 0; i < question.MaxOptions; i++ {
		options[i] = text(OptionField(i))
		images[i] = text(OptionImageField(i))
		if options[i] != "" || images[i] != "" {
			last = i
		}
	}
	return options[:last+1], images[:last+1]
}
