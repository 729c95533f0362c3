package bank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eduexercise/internal/answersheet"
	"eduexercise/internal/question"
	"eduexercise/internal/sheet"
	"eduexercise/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnreadableFile = errors.New("file is not a readable spreadsheet")
	ErrStoreDisabled  = errors.New("question bank storage is not configured")
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType  = "application/pdf"

	maxExportRows = 10000
)

// Metrics receives counters for imports and generated files.
type Metrics interface {
	ImportedRows(imported, skipped int)
	GeneratedFile(kind string)
}

type nopMetrics struct{}

func (nopMetrics) ImportedRows(int, int) {}
func (nopMetrics) GeneratedFile(string) {}

// PDFRenderer turns a layout into PDF bytes.
type PDFRenderer interface {
	Export(ctx context.Context, layout answersheet.Layout) ([]byte, error)
}

type Options struct {
	Reader  sheet.Reader
	Writer  sheet.Writer
	Store   question.Store
	PDF     PDFRenderer
	Archive storage.BlobStore
	Metrics Metrics
	Logger  *zap.Logger

	DefaultToken string
	Now          func() time.Time
	NewID        func() string
}

type Service struct {
	reader  sheet.Reader
	writer  sheet.Writer
	store   question.Store
	pdf     PDFRenderer
	archive storage.BlobStore
	metrics Metrics
	log     *zap.Logger

	defaultToken string
	now          func() time.Time
	newID        func() string
}

func NewService(opts Options) *Service {
	s := &Service{
		reader:       opts.Reader,
		writer:       opts.Writer,
		store:        opts.Store,
		pdf:          opts.PDF,
		archive:      opts.Archive,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		defaultToken: opts.DefaultToken,
		now:          opts.Now,
		newID:        opts.NewID,
	}
	if s.reader == nil || s.writer == nil {
		x := sheet.NewXLSX()
		if s.reader == nil {
			s.reader = x
		}
		if s.writer == nil {
			s.writer = x
		}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.defaultToken == "" {
		s.defaultToken = question.DefaultToken
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type ImportInput struct {
	// Subject is assigned to rows of sheets that have no subject column.
	Subject string
	Save    bool
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportReport struct {
	SchemaVersion int                 `json:"schema_version"`
	TotalRows     int                 `json:"total_rows"`
	SuccessRows   int                 `json:"success_rows"`
	SkippedRows   int                 `json:"skipped_rows"`
	Errors        []ImportRowError    `json:"errors"`
	Saved         bool                `json:"saved"`
	Questions     []question.Question `json:"questions"`
}

// Import reads a workbook and decodes every data row. Rows without text
// are reported as skipped; they never fail the import. With Save the
// decoded questions are stored in one transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, in ImportInput) (*ImportReport, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if in.Save && s.store == nil {
		return nil, ErrStoreDisabled
	}

	rows, err := s.reader.ReadRows(ctx, r)
	if err != nil {
		if errors.Is(err, sheet.ErrNoSheet) || errors.Is(err, sheet.ErrNoRows) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	dec := sheet.NewDecoder()
	dec.DefaultToken = s.defaultToken
	dec.Subject = strings.TrimSpace(in.Subject)
	if dec.Subject == "" {
		dec.Subject = question.DefaultSubject
	}
	dec.Now = s.now
	if s.newID != nil {
		dec.NewID = s.newID
	}
	res := dec.Decode(rows)

	report := &ImportReport{
		SchemaVersion: res.Schema.Version,
		TotalRows:     res.TotalRows,
		SuccessRows:   len(res.Questions),
		SkippedRows:   len(res.Skipped),
		Errors:        make([]ImportRowError, 0, len(res.Skipped)),
		Questions:     res.Questions,
	}
	for _, row := range res.Skipped {
		report.Errors = append(report.Errors, ImportRowError{Row: row, Error: "baris kosong atau teks soal tidak diisi"})
	}

	if in.Save && len(res.Questions) > 0 {
		if err := s.store.SaveAll(ctx, res.Questions); err != nil {
			return nil, fmt.Errorf("save questions: %w", err)
		}
		report.Saved = true
	}

	s.metrics.ImportedRows(report.SuccessRows, report.SkippedRows)
	s.log.Info("questions imported",
		zap.Int("schema_version", report.SchemaVersion),
		zap.Int("total_rows", report.TotalRows),
		zap.Int("success_rows", report.SuccessRows),
		zap.Int("skipped_rows", report.SkippedRows),
		zap.Bool("saved", report.Saved),
	)
	return report, nil
}

func (s *Service) List(ctx context.Context, f question.Filter) ([]question.Question, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*question.Question, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Export writes items in the export layout.
func (s *Service) Export(ctx context.Context, items []question.Question) (*File, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no questions to export", ErrInvalidInput)
	}
	return s.writeWorkbook(ctx, "export", sheet.ExportFilename(s.now()), sheet.ExportSheetName, sheet.EncodeExport(items))
}

// ExportStored exports the stored questions matching f.
func (s *Service) ExportStored(ctx context.Context, f question.Filter) (*File, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	f.Limit = maxExportRows
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.Export(ctx, items)
}

func (s *Service) Template(ctx context.Context, version int) (*File, error) {
	rows, err := sheet.TemplateRows(version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.writeWorkbook(ctx, "template", sheet.TemplateFilename(version), sheet.TemplateSheetName, rows)
}

func (s *Service) writeWorkbook(ctx context.Context, kind, name, sheetName string, rows [][]any) (*File, error) {
	var buf bytes.Buffer
	if err := s.writer.WriteRows(ctx, &buf, sheetName, rows); err != nil {
		return nil, fmt.Errorf("write %s workbook: %w", kind, err)
	}
	file := &File{Name: name, ContentType: XLSXContentType, Data: buf.Bytes()}
	s.metrics.GeneratedFile(kind)
	s.archiveFile(ctx, kind, file)
	return file, nil
}

// SheetInput selects the questions for an answer sheet: the given ones, or
// the stored questions of Subject/Token when none are given.
type SheetInput struct {
	Subject   string
	Token     string
	Questions []question.Question
}

func (s *Service) Layout(ctx context.Context, in SheetInput) (answersheet.Layout, error) {
	items := in.Questions
	if len(items) == 0 {
		if s.store == nil {
			return answersheet.Layout{}, fmt.Errorf("%w: questions are required", ErrInvalidInput)
		}
		stored, err := s.store.List(ctx, question.Filter{Subject: in.Subject, Token: in.Token, Limit: maxExportRows})
		if err != nil {
			return answersheet.Layout{}, err
		}
		items = stored
	}
	return answersheet.Build(items, in.Subject), nil
}

// Print hands the print document to driver; a missing print target is a
// silent no-op.
func (s *Service) Print(ctx context.Context, driver answersheet.PrintDriver, in SheetInput) error {
	layout, err := s.Layout(ctx, in)
	if err != nil {
		return err
	}
	if err := answersheet.Print(ctx, driver, layout, in.Subject); err != nil {
		return err
	}
	s.metrics.GeneratedFile("print")
	return nil
}

func (s *Service) PDF(ctx context.Context, in SheetInput) (*File, error) {
	if s.pdf == nil {
		return nil, answersheet.ErrNoRasterizer
	}
	layout, err := s.Layout(ctx, in)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Export(ctx, layout)
	if err != nil {
		return nil, err
	}
	file := &File{Name: answersheet.PDFFilename(in.Subject), ContentType: PDFContentType, Data: data}
	s.metrics.GeneratedFile("pdf")
	s.archiveFile(ctx, "pdf", file)
	return file, nil
}

// archiveFile copies a generated file to the archive. Failures are logged
// and do not affect the download.
func (s *Service) archiveFile(ctx context.Context, kind string, file *File) {
	if s.archive == nil {
		return
	}
	key := storage.ArchiveKey(kind, file.Name, s.now())
	if _, err := s.archive.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType); err != nil {
		s.log.Warn("archive generated file", zap.String("key", key), zap.Error(err))
	}
}
