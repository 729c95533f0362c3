package sheet

import (
	"fmt"
	"strings"
)

// Field names one logical column of a question row.
type Field string

const (
	FieldOrder            Field = "order"
	FieldID               Field = "id"
	FieldType             Field = "type"
	FieldLevel            Field = "level"
	FieldMaterial         Field = "material"
	FieldText             Field = "text"
	FieldImage            Field = "image"
	FieldAnswerKey        Field = "answer_key"
	FieldExplanation      Field = "explanation"
	FieldToken            Field = "token"
	FieldDuration         Field = "duration_minutes"
	FieldShuffleQuestions Field = "shuffle_questions"
	FieldShuffleOptions   Field = "shuffle_options"
	FieldSubject          Field = "subject"
)

// OptionField is the text column of option i (0 = A).
func OptionField(i int) Field {
	return Field(fmt.Sprintf("option_%c", 'a'+i))
}

// OptionImageField is the image column of option i (0 = A).
func OptionImageField(i int) Field {
	return Field(fmt.Sprintf("option_image_%c", 'a'+i))
}

type Column struct {
	Field  Field
	Header string
}

// Schema binds fields to fixed column positions; a column's index is its
// position in Columns.
type Schema struct {
	Version int
	Columns []Column
	// KeepOptionSlots keeps blank option cells in place so option letters
	// stay tied to their column. When false blank options are dropped and
	// later options shift up.
	KeepOptionSlots bool
}

var V1 = Schema{
	Version: 1,
	Columns: []Column{
		{FieldOrder, "No"},
		{FieldType, "Tipe Soal"},
		{FieldLevel, "Level"},
		{FieldMaterial, "Materi"},
		{FieldText, "Teks Soal"},
		{FieldImage, "URL Gambar Stimulus"},
		{OptionField(0), "Opsi A"},
		{OptionField(1), "Opsi B"},
		{OptionField(2), "Opsi C"},
		{OptionField(3), "Opsi D"},
		{OptionField(4), "Opsi E"},
		{FieldAnswerKey, "Kunci Jawaban"},
		{FieldExplanation, "Pembahasan"},
		{FieldToken, "Token"},
		{FieldDuration, "Durasi (Menit)"},
		{FieldShuffleQuestions, "Acak Soal (Ya/Tidak)"},
		{FieldShuffleOptions, "Acak Opsi (Ya/Tidak)"},
		{FieldSubject, "Mata Pelajaran"},
	},
}

var V2 = Schema{
	Version: 2,
	Columns: []Column{
		{FieldOrder, "No"},
		{FieldID, "ID Soal"},
		{FieldType, "Tipe"},
		{FieldLevel, "Level"},
		{FieldText, "Butir Pertanyaan"},
		{FieldImage, "Gambar Soal (URL)"},
		{OptionField(0), "Opsi A"},
		{OptionImageField(0), "Gambar Opsi A"},
		{OptionField(1), "Opsi B"},
		{OptionImageField(1), "Gambar Opsi B"},
		{OptionField(2), "Opsi C"},
		{OptionImageField(2), "Gambar Opsi C"},
		{OptionField(3), "Opsi D"},
		{OptionImageField(3), "Gambar Opsi D"},
		{OptionField(4), "Opsi E"},
		{OptionImageField(4), "Gambar Opsi E"},
		{FieldAnswerKey, "Kunci Jawaban"},
		{FieldExplanation, "Pembahasan"},
		{FieldToken, "Token"},
	},
	KeepOptionSlots: true,
}

// SchemaByVersion returns V1 or V2.
func SchemaByVersion(version int) (Schema, bool) {
	switch version {
	case 1:
		return V1, true
	case 2:
		return V2, true
	default:
		return Schema{}, false
	}
}

// Index returns the column position bound to f.
func (s Schema) Index(f Field) (int, bool) {
	for i, c := range s.Columns {
		if c.Field == f {
			return i, true
		}
	}
	return -1, false
}

func (s Schema) Has(f Field) bool {
	_, ok := s.Index(f)
	return ok
}

// Header returns the header row.
func (s Schema) Header() []any {
	out := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// Detect picks the schema of a sheet from its header row. Only the two
// V2 marker cells are inspected, so header text elsewhere may drift freely.
func Detect(header []any) Schema {
	if strings.TrimSpace(cellString(header, 1)) == "ID Soal" ||
		strings.TrimSpace(cellString(header, 4)) == "Butir Pertanyaan" {
		return V2
	}
	return V1
}
