package bank

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"eduexercise/internal/answersheet"
	"eduexercise/internal/question"
	"eduexercise/internal/sheet"
)

type mockStore struct {
	saveAllFn func(ctx context.Context, items []question.Question) error
	listFn    func(ctx context.Context, f question.Filter) ([]question.Question, error)
	getFn     func(ctx context.Context, id string) (*question.Question, error)
}

func (m *mockStore) SaveAll(ctx context.Context, items []question.Question) error {
	if m.saveAllFn == nil {
		return errors.New("not implemented")
	}
	return m.saveAllFn(ctx, items)
}

func (m *mockStore) List(ctx context.Context, f question.Filter) ([]question.Question, error) {
	if m.listFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.listFn(ctx, f)
}

func (m *mockStore) Get(ctx context.Context, id string) (*question.Question, error) {
	if m.getFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.getFn(ctx, id)
}

type mockArchive struct {
	putFn func(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

func (m *mockArchive) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return m.putFn(ctx, key, r, size, contentType)
}

func (m *mockArchive) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type mockPDF struct {
	exportFn func(ctx context.Context, layout answersheet.Layout) ([]byte, error)
}

func (m *mockPDF) Export(ctx context.Context, layout answersheet.Layout) ([]byte, error) {
	return m.exportFn(ctx, layout)
}

type recordingMetrics struct {
	imported, skipped int
	generated         []string
}

func (m *recordingMetrics) ImportedRows(imported, skipped int) {
	m.imported += imported
	m.skipped += skipped
}

func (m *recordingMetrics) GeneratedFile(kind string) {
	m.generated = append(m.generated, kind)
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestService(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewService(opts)
}

func workbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := sheet.NewXLSX().WriteRows(context.Background(), &buf, "Sheet1", rows); err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImportReport(t *testing.T) {
	rows, err := sheet.TemplateRows(1)
	if err != nil {
		t.Fatalf("template rows: %v", err)
	}
	rows = append(rows, []any{99, "Pilihan Ganda", "L2", "", ""})

	metrics := &recordingMetrics{}
	svc := newTestService(Options{Metrics: metrics})
	report, err := svc.Import(context.Background(), workbook(t, rows), ImportInput{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.SchemaVersion != 1 || report.TotalRows != 7 || report.SuccessRows != 6 || report.SkippedRows != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 8 {
		t.Fatalf("errors: %+v", report.Errors)
	}
	if report.Saved {
		t.Fatalf("should not save without the save flag")
	}
	if metrics.imported != 6 || metrics.skipped != 1 {
		t.Fatalf("metrics: %+v", metrics)
	}
	if report.Questions[0].Subject != "Biologi" || !report.Questions[0].CreatedAt.Equal(fixedNow) {
		t.Fatalf("first question: %+v", report.Questions[0])
	}
}

func TestImportV2UsesSubjectAndSaves(t *testing.T) {
	rows := sheet.EncodeExport([]question.Question{
		{Type: question.TypeEssay, Text: "Jelaskan!", CorrectAnswer: question.FreeText("x"), QuizToken: "abc"},
	})
	var saved []question.Question
	store := &mockStore{saveAllFn: func(_ context.Context, items []question.Question) error {
		saved = items
		return nil
	}}
	svc := newTestService(Options{Store: store, DefaultToken: "DEF"})

	report, err := svc.Import(context.Background(), workbook(t, rows), ImportInput{Subject: "Fisika", Save: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !report.Saved || len(saved) != 1 {
		t.Fatalf("expected one saved question, report=%+v saved=%d", report, len(saved))
	}
	if saved[0].Subject != "Fisika" || saved[0].QuizToken != "ABC" || report.SchemaVersion != 2 {
		t.Fatalf("saved question: %+v", saved[0])
	}
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(Options{})

	if _, err := svc.Import(ctx, strings.NewReader("not a workbook"), ImportInput{}); !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile, got %v", err)
	}
	if _, err := svc.Import(ctx, workbook(t, nil), ImportInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty sheet, got %v", err)
	}
	if _, err := svc.Import(ctx, strings.NewReader("x"), ImportInput{Save: true}); !errors.Is(err, ErrStoreDisabled) {
		t.Fatalf("expected ErrStoreDisabled, got %v", err)
	}

	boom := errors.New("db down")
	failing := newTestService(Options{Store: &mockStore{saveAllFn: func(context.Context, []question.Question) error { return boom }}})
	rows, _ := sheet.TemplateRows(2)
	if _, err := failing.Import(ctx, workbook(t, rows), ImportInput{Save: true}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestExportArchivesAndCounts(t *testing.T) {
	var archivedKey string
	var archived []byte
	archive := &mockArchive{putFn: func(_ context.Context, key string, r io.Reader, size int64, _ string) (string, error) {
		archivedKey = key
		archived, _ = io.ReadAll(r)
		return key, nil
	}}
	metrics := &recordingMetrics{}
	svc := newTestService(Options{Archive: archive, Metrics: metrics})

	file, err := svc.Export(context.Background(), sheet.TemplateQuestions())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "Export_Soal_1704164645000.xlsx" || file.ContentType != XLSXContentType {
		t.Fatalf("file: %s %s", file.Name, file.ContentType)
	}
	if archivedKey != "export/2024/01/02/Export_Soal_1704164645000.xlsx" || !bytes.Equal(archived, file.Data) {
		t.Fatalf("archive: key=%s bytes=%d", archivedKey, len(archived))
	}
	if len(metrics.generated) != 1 || metrics.generated[0] != "export" {
		t.Fatalf("metrics: %v", metrics.generated)
	}

	rows, err := sheet.NewXLSX().ReadRows(context.Background(), bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if sheet.Detect(rows[0]).Version != 2 || len(rows) != len(sheet.TemplateQuestions())+1 {
		t.Fatalf("exported sheet: V%d, %d rows", sheet.Detect(rows[0]).Version, len(rows))
	}

	if _, err := svc.Export(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestArchiveFailureDoesNotFailDownload(t *testing.T) {
	archive := &mockArchive{putFn: func(context.Context, string, io.Reader, int64, string) (string, error) {
		return "", errors.New("bucket gone")
	}}
	svc := newTestService(Options{Archive: archive})
	file, err := svc.Template(context.Background(), 2)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if file.Name != "Template_EduExercise_Pro_V2.xlsx" || len(file.Data) == 0 {
		t.Fatalf("file: %+v", file.Name)
	}
}

func TestTemplateUnknownVersion(t *testing.T) {
	if _, err := newTestService(Options{}).Template(context.Background(), 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExportStoredUsesFilter(t *testing.T) {
	var got question.Filter
	store := &mockStore{listFn: func(_ context.Context, f question.Filter) ([]question.Question, error) {
		got = f
		return sheet.TemplateQuestions(), nil
	}}
	if _, err := newTestService(Options{Store: store}).ExportStored(context.Background(), question.Filter{Subject: "Biologi", Token: "bio1"}); err != nil {
		t.Fatalf("export stored: %v", err)
	}
	if got.Subject != "Biologi" || got.Token != "bio1" || got.Limit != maxExportRows {
		t.Fatalf("filter: %+v", got)
	}

	if _, err := newTestService(Options{}).ExportStored(context.Background(), question.Filter{}); !errors.Is(err, ErrStoreDisabled) {
		t.Fatalf("expected ErrStoreDisabled, got %v", err)
	}
}

func TestLayoutFallsBackToStore(t *testing.T) {
	store := &mockStore{listFn: func(_ context.Context, f question.Filter) ([]question.Question, error) {
		if f.Token != "BIO1" {
			t.Fatalf("token filter: %q", f.Token)
		}
		return sheet.TemplateQuestions(), nil
	}}
	layout, err := newTestService(Options{Store: store}).Layout(context.Background(), SheetInput{Subject: "Biologi", Token: "BIO1"})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(layout.Sections) != 4 || layout.Header.Subject != "BIOLOGI" {
		t.Fatalf("layout: %+v", layout.Header)
	}

	if _, err := newTestService(Options{}).Layout(context.Background(), SheetInput{Subject: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPDF(t *testing.T) {
	in := SheetInput{Subject: "Ilmu Pengetahuan Alam", Questions: sheet.TemplateQuestions()}

	if _, err := newTestService(Options{}).PDF(context.Background(), in); !errors.Is(err, answersheet.ErrNoRasterizer) {
		t.Fatalf("expected ErrNoRasterizer, got %v", err)
	}

	pdf := &mockPDF{exportFn: func(_ context.Context, layout answersheet.Layout) ([]byte, error) {
		if len(layout.Sections) != 4 {
			t.Fatalf("sections: %d", len(layout.Sections))
		}
		return []byte("%PDF-1.3"), nil
	}}
	file, err := newTestService(Options{PDF: pdf}).PDF(context.Background(), in)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if file.Name != "Lembar_Jawaban_Ilmu_Pengetahuan_Alam.pdf" || file.ContentType != PDFContentType {
		t.Fatalf("file: %s %s", file.Name, file.ContentType)
	}
}

type capturePrinter struct{ doc []byte }

func (p *capturePrinter) Print(_ context.Context, doc []byte) error {
	p.doc = doc
	return nil
}

func TestPrint(t *testing.T) {
	p := &capturePrinter{}
	err := newTestService(Options{}).Print(context.Background(), p, SheetInput{Subject: "Biologi", Questions: sheet.TemplateQuestions()})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !bytes.Contains(p.doc, []byte("window.print()")) {
		t.Fatalf("print document missing print script")
	}
}
