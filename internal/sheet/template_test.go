package sheet

import (
	"errors"
	"testing"
	"time"

	"eduexercise/internal/question"
)

func TestTemplateRows(t *testing.T) {
	for _, version := range []int{1, 2} {
		rows, err := TemplateRows(version)
		if err != nil {
			t.Fatalf("v%d: %v", version, err)
		}
		if len(rows) != len(question.Types)+1 {
			t.Fatalf("v%d rows: got %d", version, len(rows))
		}

		res := newTestDecoder().Decode(rows)
		if res.Schema.Version != version {
			t.Fatalf("template v%d detected as v%d", version, res.Schema.Version)
		}
		seen := map[question.Type]bool{}
		for _, q := range res.Questions {
			seen[q.Type] = true
		}
		for _, typ := range question.Types {
			if !seen[typ] {
				t.Fatalf("v%d template has no %q row", version, typ)
			}
		}
	}

	if _, err := TemplateRows(7); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	if got := TemplateFilename(1); got != "Template_EduExercise_Pro.xlsx" {
		t.Fatalf("v1: got %q", got)
	}
	if got := TemplateFilename(2); got != "Template_EduExercise_Pro_V2.xlsx" {
		t.Fatalf("v2: got %q", got)
	}
	now := time.UnixMilli(1700000000123)
	if got := ExportFilename(now); got != "Export_Soal_1700000000123.xlsx" {
		t.Fatalf("export: got %q", got)
	}
}
