package answersheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

const a4WidthMM = 210.0

// FPDFAssembler places the bitmap at the top-left of one A4 portrait page,
// scaled to the page width with its aspect ratio kept.
type FPDFAssembler struct{}

func (FPDFAssembler) Assemble(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New("assemble pdf: nil image")
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("assemble pdf: empty image")
	}

	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, &raw)
	height := float64(b.Dy()) * a4WidthMM / float64(b.Dx())
	pdf.ImageOptions("page", 0, 0, a4WidthMM, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
