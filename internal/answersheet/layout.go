package answersheet

import (
	"sort"
	"strconv"
	"strings"

	"eduexercise/internal/question"
)

const (
	Title            = "LEMBAR JAWABAN SISWA"
	TokenPlaceholder = "-"
	LongAnswerHeight = 60
)

type SectionKind string

const (
	SectionMultipleChoice SectionKind = "multiple_choice"
	SectionStatement      SectionKind = "statement"
	SectionShortAnswer    SectionKind = "short_answer"
	SectionLongAnswer     SectionKind = "long_answer"
)

// CaptureKind is how a student records an answer on paper.
type CaptureKind string

const (
	CaptureBubbles    CaptureKind = "bubbles"
	CaptureStatements CaptureKind = "statements"
	CaptureLine       CaptureKind = "line"
	CaptureBox        CaptureKind = "box"
)

type Layout struct {
	Header   Header    `json:"header"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Header struct {
	Subject string `json:"subject"`
	Token   string `json:"token"`
}

type Section struct {
	Kind    SectionKind `json:"kind"`
	Title   string      `json:"title"`
	Columns int         `json:"columns"`
	Items   []Item      `json:"items"`
}

type Item struct {
	Number     int            `json:"number"`
	QuestionID string         `json:"question_id"`
	Capture    CaptureKind    `json:"capture"`
	Slots      []string       `json:"slots,omitempty"`
	Statements []StatementRow `json:"statements,omitempty"`
	BoxHeight  int            `json:"box_height,omitempty"`
}

type StatementRow struct {
	Label   string   `json:"label"`
	Choices []string `json:"choices"`
}

type sectionDef struct {
	kind    SectionKind
	title   string
	columns int
}

var sectionOrder = []sectionDef{
	{SectionMultipleChoice, "I. PILIHAN GANDA / JAMAK", 3},
	{SectionStatement, "II. BENAR/SALAH ATAU SESUAI/TIDAK SESUAI", 2},
	{SectionShortAnswer, "III. ISIAN SINGKAT", 2},
	{SectionLongAnswer, "IV. URAIAN", 1},
}

func sectionOf(t question.Type) (SectionKind, bool) {
	switch t {
	case question.TypeSingleChoice, question.TypeMultiChoice:
		return SectionMultipleChoice, true
	case question.TypeTrueFalse, question.TypeMatch:
		return SectionStatement, true
	case question.TypeFillIn:
		return SectionShortAnswer, true
	case question.TypeEssay:
		return SectionLongAnswer, true
	default:
		return "", false
	}
}

// Build lays out a paper answer sheet for questions. Questions are ordered
// by Order (stable) and grouped by how they are answered; groups with no
// questions are left out and unknown types are ignored.
func Build(questions []question.Question, subject string) Layout {
	sorted := append([]question.Question(nil), questions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	layout := Layout{
		Header:   Header{Subject: strings.ToUpper(subject), Token: TokenPlaceholder},
		Title:    Title,
		Sections: make([]Section, 0, len(sectionOrder)),
	}
	if len(sorted) > 0 && sorted[0].QuizToken != "" {
		layout.Header.Token = sorted[0].QuizToken
	}

	buckets := make(map[SectionKind][]Item, len(sectionOrder))
	for i, q := range sorted {
		kind, ok := sectionOf(q.Type)
		if !ok {
			continue
		}
		buckets[kind] = append(buckets[kind], buildItem(kind, q, i))
	}

	for _, def := range sectionOrder {
		items := buckets[def.kind]
		if len(items) == 0 {
			continue
		}
		layout.Sections = append(layout.Sections, Section{
			Kind:    def.kind,
			Title:   def.title,
			Columns: def.columns,
			Items:   items,
		})
	}
	return layout
}

func buildItem(kind SectionKind, q question.Question, position int) Item {
	number := q.Order
	if number <= 0 {
		number = position + 1
	}
	item := Item{Number: number, QuestionID: q.ID}

	switch kind {
	case SectionMultipleChoice:
		item.Capture = CaptureBubbles
		item.Slots = make([]string, question.MaxOptions)
		for i := range item.Slots {
			item.Slots[i] = question.OptionLabel(i)
		}
	case SectionStatement:
		item.Capture = CaptureStatements
		yes, no := q.Type.StatementLabels()
		n := len(q.Options)
		if n == 0 {
			n = 1
		}
		item.Statements = make([]StatementRow, n)
		for i := range item.Statements {
			item.Statements[i] = StatementRow{
				Label:   "Pern. " + strconv.Itoa(i+1),
				Choices: []string{yes, no},
			}
		}
	case SectionShortAnswer:
		item.Capture = CaptureLine
	case SectionLongAnswer:
		item.Capture = CaptureBox
		item.BoxHeight = LongAnswerHeight
	}
	return item
}
