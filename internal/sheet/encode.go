package sheet

import (
	"eduexercise/internal/question"
)

// ExamSettings fills the exam-setting columns that only V1 carries.
type ExamSettings struct {
	DurationMinutes  int
	ShuffleQuestions bool
	ShuffleOptions   bool
}

// EncodeExport writes items in the export layout (V2), which keeps option
// images whatever schema the questions were imported from.
func EncodeExport(items []question.Question) [][]any {
	return Encode(V2, items, ExamSettings{})
}

// Encode returns the header row of s followed by one row per question. The
// input is not modified.
func Encode(s Schema, items []question.Question, settings ExamSettings) [][]any {
	rows := make([][]any, 0, len(items)+1)
	rows = append(rows, s.Header())
	for i, q := range items {
		rows = append(rows, EncodeRow(s, q, i, settings))
	}
	return rows
}

// EncodeRow encodes one question; index is its position in the export and
// stands in for a missing order.
func EncodeRow(s Schema, q question.Question, index int, settings ExamSettings) []any {
	row := make([]any, len(s.Columns))
	for col, c := range s.Columns {
		row[col] = fieldValue(c.Field, q, index, settings)
	}
	return row
}

func fieldValue(f Field, q question.Question, index int, settings ExamSettings) any {
	switch f {
	case FieldOrder:
		if q.Order > 0 {
			return q.Order
		}
		return index + 1
	case FieldID:
		return q.ID
	case FieldType:
		return string(q.Type)
	case FieldLevel:
		return q.Level
	case FieldMaterial:
		return q.Material
	case FieldText:
		return q.Text
	case FieldImage:
		return q.Image
	case FieldAnswerKey:
		return question.EncodeAnswerKey(q.Type, q.CorrectAnswer)
	case FieldExplanation:
		return q.Explanation
	case FieldToken:
		return q.QuizToken
	case FieldDuration:
		return settings.DurationMinutes
	case FieldShuffleQuestions:
		return yesNo(settings.ShuffleQuestions)
	case FieldShuffleOptions:
		return yesNo(settings.ShuffleOptions)
	case FieldSubject:
		if q.Subject == "" {
			return question.DefaultSubject
		}
		return q.Subject
	}

	for i := 0; i < question.MaxOptions; i++ {
		switch f {
		case OptionField(i):
			return slot(q.Options, i)
		case OptionImageField(i):
			return slot(q.OptionImages, i)
		}
	}
	return ""
}

func slot(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
