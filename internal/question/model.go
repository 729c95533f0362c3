package question

import (
	"encoding/json"
	"strings"
	"time"
)

// Type is the printed question-type label. The constant values are the
// canonical labels written to spreadsheets; ClassifyLabel maps any label
// an author typed back onto one of them.
type Type string

const (
	TypeSingleChoice Type = "Pilihan Ganda"
	TypeMultiChoice  Type = "Pilihan Ganda Jamak (MCMA)"
	TypeTrueFalse    Type = "Benar/Salah"
	TypeMatch        Type = "Sesuai/Tidak Sesuai"
	TypeFillIn       Type = "Isian Singkat"
	TypeEssay        Type = "Uraian"
)

const (
	DefaultLevel   = "L2"
	DefaultSubject = "Umum"
	DefaultToken   = "TOKEN"
	DefaultPhase   = "Fase C"
	MaxOptions     = 5
)

// Types lists every supported type in authoring order.
var Types = []Type{TypeSingleChoice, TypeMultiChoice, TypeTrueFalse, TypeMatch, TypeFillIn, TypeEssay}

func (t Type) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeTrueFalse, TypeMatch, TypeFillIn, TypeEssay:
		return true
	default:
		return false
	}
}

// IsStatement reports whether answers are one boolean per statement.
func (t Type) IsStatement() bool {
	return t == TypeTrueFalse || t == TypeMatch
}

// StatementLabels returns the printed (true, false) label pair.
func (t Type) StatementLabels() (string, string) {
	if t == TypeMatch {
		return "S", "TS"
	}
	return "B", "S"
}

// ClassifyLabel maps a free-form type label to a Type. Matching is a
// case-sensitive substring test in a fixed order; ISIAN and URAIAN are
// matched case-insensitively. Anything unrecognised is single choice.
func ClassifyLabel(label string) Type {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(label, "Jamak") || strings.Contains(label, "MCMA"):
		return TypeMultiChoice
	case strings.Contains(label, "Benar/Salah") || strings.Contains(label, "B/S"):
		return TypeTrueFalse
	case strings.Contains(label, "Sesuai") || strings.Contains(label, "S/TS"):
		return TypeMatch
	case strings.Contains(upper, "ISIAN"):
		return TypeFillIn
	case strings.Contains(upper, "URAIAN"):
		return TypeEssay
	default:
		return TypeSingleChoice
	}
}

// OptionLabel returns A..E for positions 0..4.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

type Question struct {
	ID            string    `json:"id"`
	Order         int       `json:"order"`
	Type          Type      `json:"type"`
	Level         string    `json:"level"`
	Material      string    `json:"material"`
	Subject       string    `json:"subject"`
	Text          string    `json:"text"`
	Image         string    `json:"image,omitempty"`
	Options       []string  `json:"options"`
	OptionImages  []string  `json:"option_images,omitempty"`
	CorrectAnswer AnswerKey `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	QuizToken     string    `json:"quiz_token"`
	Phase         string    `json:"phase"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
}

// Key returns the answer key, replacing a missing or mistyped key with the
// default for the question type.
func (q Question) Key() AnswerKey {
	return Conform(q.Type, q.CorrectAnswer)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	var raw struct {
		alias
		CorrectAnswer json.RawMessage `json:"correct_answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question(raw.alias)
	q.CorrectAnswer = UnmarshalAnswerKey(q.Type, raw.CorrectAnswer)
	return nil
}
