package sheet

import (
	"errors"
	"fmt"
	"time"

	"eduexercise/internal/question"
)

const (
	ExportSheetName   = "Daftar Soal"
	TemplateSheetName = "Template"
)

var ErrUnknownSchema = errors.New("unknown schema version")

var templateSettings = ExamSettings{DurationMinutes: 60, ShuffleQuestions: true, ShuffleOptions: true}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("Export_Soal_%d.xlsx", now.UnixMilli())
}

// TemplateFilename keeps the historical name for version 1 and suffixes
// later versions.
func TemplateFilename(version int) string {
	if version <= 1 {
		return "Template_EduExercise_Pro.xlsx"
	}
	return fmt.Sprintf("Template_EduExercise_Pro_V%d.xlsx", version)
}

// TemplateRows returns the header plus one filled example row per question
// type in the requested schema version.
func TemplateRows(version int) ([][]any, error) {
	s, ok := SchemaByVersion(version)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchema, version)
	}
	return Encode(s, TemplateQuestions(), templateSettings), nil
}

// TemplateQuestions are the example questions written into templates.
func TemplateQuestions() []question.Question {
	const (
		subject = "Biologi"
		token   = "BIO1"
		imgBase = "https://contoh.sekolah.id/img/"
	)
	return []question.Question{
		{
			ID: "CONTOH-01", Order: 1, Type: question.TypeSingleChoice, Level: "L2", Material: "Sistem Pencernaan",
			Subject: subject, Text: "Apa fungsi lambung?", Image: imgBase + "lambung.png",
			Options:       []string{"Menyerap air", "Mencerna protein", "Menghasilkan empedu", "Menyimpan feses", "Memompa darah"},
			OptionImages:  []string{"", imgBase + "pepsin.png", "", "", ""},
			CorrectAnswer: question.ChoiceIndex(1),
			Explanation:   "Lambung menghasilkan pepsin untuk protein", QuizToken: token,
		},
		{
			ID: "CONTOH-02", Order: 2, Type: question.TypeMultiChoice, Level: "L2", Material: "Sistem Pencernaan",
			Subject: subject, Text: "Manakah yang termasuk enzim pencernaan?", Image: imgBase + "enzim.png",
			Options:       []string{"Amilase", "Hemoglobin", "Lipase", "Insulin", "Pepsin"},
			OptionImages:  []string{imgBase + "amilase.png", "", imgBase + "lipase.png", "", imgBase + "pepsin.png"},
			CorrectAnswer: question.ChoiceSet{0, 2, 4},
			Explanation:   "Amilase, lipase, dan pepsin adalah enzim pencernaan", QuizToken: token,
		},
		{
			ID: "CONTOH-03", Order: 3, Type: question.TypeTrueFalse, Level: "L1", Material: "Sel",
			Subject: subject, Text: "Tentukan benar atau salah pernyataan berikut.", Image: imgBase + "sel.png",
			Options:       []string{"Mitokondria menghasilkan energi", "Ribosom menyimpan air", "Inti sel berisi DNA"},
			OptionImages:  []string{"", "", ""},
			CorrectAnswer: question.Statements{true, false, true},
			Explanation:   "Ribosom berperan dalam sintesis protein", QuizToken: token,
		},
		{
			ID: "CONTOH-04", Order: 4, Type: question.TypeMatch, Level: "L3", Material: "Ekosistem",
			Subject: subject, Text: "Tentukan kesesuaian pasangan berikut.", Image: imgBase + "ekosistem.png",
			Options:       []string{"Produsen - Tumbuhan hijau", "Konsumen I - Jamur"},
			OptionImages:  []string{"", ""},
			CorrectAnswer: question.Statements{true, false},
			Explanation:   "Jamur adalah pengurai", QuizToken: token,
		},
		{
			ID: "CONTOH-05", Order: 5, Type: question.TypeFillIn, Level: "L1", Material: "Fotosintesis",
			Subject: subject, Text: "Zat hijau daun disebut ...", Image: imgBase + "daun.png",
			CorrectAnswer: question.FreeText("Klorofil"),
			Explanation:   "Klorofil menyerap cahaya untuk fotosintesis", QuizToken: token,
		},
		{
			ID: "CONTOH-06", Order: 6, Type: question.TypeEssay, Level: "L3", Material: "Fotosintesis",
			Subject: subject, Text: "Jelaskan reaksi terang!", Image: imgBase + "tilakoid.png",
			CorrectAnswer: question.FreeText("Reaksi yang butuh cahaya..."),
			Explanation:   "Terjadi di tilakoid", QuizToken: token,
		},
	}
}
