package answersheet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"regexp"

	"go.uber.org/zap"
)

var ErrNoRasterizer = errors.New("pdf rasterizer is not configured")

// Rasterizer renders the HTML document stored at documentPath to a bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, documentPath string) (image.Image, error)
}

// PDFAssembler produces a PDF with img as its single page image.
type PDFAssembler interface {
	Assemble(ctx context.Context, img image.Image) ([]byte, error)
}

type PDFExporter struct {
	rasterizer Rasterizer
	assembler  PDFAssembler
	stagingDir string
	log        *zap.Logger
}

// NewPDFExporter wires the collaborators. stagingDir empty means the OS
// temp dir; a nil logger is replaced by a no-op one.
func NewPDFExporter(r Rasterizer, a PDFAssembler, stagingDir string, log *zap.Logger) *PDFExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFExporter{rasterizer: r, assembler: a, stagingDir: stagingDir, log: log}
}

// Export renders layout off-screen, rasterizes it and wraps the bitmap in a
// PDF. The staged document is removed whatever the outcome.
func (e *PDFExporter) Export(ctx context.Context, layout Layout) ([]byte, error) {
	if e == nil || e.rasterizer == nil || e.assembler == nil {
		return nil, ErrNoRasterizer
	}

	doc, err := RenderPageDocument(layout)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(e.stagingDir, "answer-sheet-*.html")
	if err != nil {
		return nil, fmt.Errorf("stage answer sheet: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.log.Warn("remove staged answer sheet", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	_, writeErr := f.Write(doc)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return nil, e.fail("stage", layout, fmt.Errorf("write staged answer sheet: %w", err))
	}

	img, err := e.rasterizer.Rasterize(ctx, path)
	if err != nil {
		return nil, e.fail("rasterize", layout, fmt.Errorf("rasterize answer sheet: %w", err))
	}
	out, err := e.assembler.Assemble(ctx, img)
	if err != nil {
		return nil, e.fail("assemble", layout, fmt.Errorf("assemble pdf: %w", err))
	}
	return out, nil
}

func (e *PDFExporter) fail(stage string, layout Layout, err error) error {
	e.log.Error("pdf generation failed",
		zap.String("stage", stage),
		zap.String("subject", layout.Header.Subject),
		zap.Error(err),
	)
	return err
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PDFFilename is the download name for a subject's answer sheet.
func PDFFilename(subject string) string {
	return "Lembar_Jawaban_" + whitespaceRun.ReplaceAllString(subject, "_") + ".pdf"
}
