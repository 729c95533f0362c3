package sheet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"eduexercise/internal/question"
)

func TestXLSXRoundTrip(t *testing.T) {
	x := NewXLSX()
	rows := EncodeExport(TemplateQuestions())

	var buf bytes.Buffer
	if err := x.WriteRows(context.Background(), &buf, ExportSheetName, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := x.ReadRows(context.Background(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("rows: got %d want %d", len(got), len(rows))
	}
	if got[0][1] != "ID Soal" || got[1][0] != "1" {
		t.Fatalf("cells: %v / %v", got[0][1], got[1][0])
	}

	res := newTestDecoder().Decode(got)
	if res.Schema.Version != 2 || len(res.Questions) != len(rows)-1 {
		t.Fatalf("decoded: V%d %d questions", res.Schema.Version, len(res.Questions))
	}
	if res.Questions[1].Type != question.TypeMultiChoice {
		t.Fatalf("type: got %q", res.Questions[1].Type)
	}
}

func TestXLSXReadRejectsGarbage(t *testing.T) {
	_, err := NewXLSX().ReadRows(context.Background(), strings.NewReader("not a workbook"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestXLSXReadEmptySheet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSX().WriteRows(context.Background(), &buf, "Kosong", nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewXLSX().ReadRows(context.Background(), &buf)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestXLSXHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := NewXLSX().WriteRows(ctx, &buf, "x", [][]any{{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
