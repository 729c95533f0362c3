package answersheet

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

type fakeRasterizer struct {
	rasterizeFn func(ctx context.Context, path string) (image.Image, error)
	seenPath    string
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, path string) (image.Image, error) {
	f.seenPath = path
	return f.rasterizeFn(ctx, path)
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestPDFExporterExport(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRasterizer{rasterizeFn: func(_ context.Context, path string) (image.Image, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !bytes.Contains(raw, []byte("LEMBAR JAWABAN SISWA")) {
			return nil, errors.New("staged document has no sheet")
		}
		return solidImage(40, 60), nil
	}}

	out, err := NewPDFExporter(r, FPDFAssembler{}, dir, nil).Export(context.Background(), sampleLayout())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if filepath.Dir(r.seenPath) != dir {
		t.Fatalf("staged outside staging dir: %s", r.seenPath)
	}
	if _, err := os.Stat(r.seenPath); !os.IsNotExist(err) {
		t.Fatalf("staged file left behind: %v", err)
	}
}

func TestPDFExporterCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("chrome crashed")
	r := &fakeRasterizer{rasterizeFn: func(context.Context, string) (image.Image, error) { return nil, boom }}

	_, err := NewPDFExporter(r, FPDFAssembler{}, dir, nil).Export(context.Background(), sampleLayout())
	if !errors.Is(err, boom) {
		t.Fatalf("expected rasterizer error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("staging dir not empty: %d entries", len(entries))
	}
}

func TestPDFExporterWithoutRasterizer(t *testing.T) {
	if _, err := NewPDFExporter(nil, FPDFAssembler{}, "", nil).Export(context.Background(), sampleLayout()); !errors.Is(err, ErrNoRasterizer) {
		t.Fatalf("expected ErrNoRasterizer, got %v", err)
	}
}

func TestFPDFAssemblerRejectsEmptyImage(t *testing.T) {
	if _, err := (FPDFAssembler{}).Assemble(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPDFFilename(t *testing.T) {
	tests := map[string]string{
		"Biologi":            "Lembar_Jawaban_Biologi.pdf",
		"Ilmu  Pengetahuan":  "Lembar_Jawaban_Ilmu_Pengetahuan.pdf",
		"Bahasa\tIndonesia ": "Lembar_Jawaban_Bahasa_Indonesia_.pdf",
	}
	for in, want := range tests {
		if got := PDFFilename(in); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}
