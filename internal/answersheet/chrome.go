package answersheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeRasterizer screenshots a staged document with headless Chrome.
type ChromeRasterizer struct {
	// ExecPath overrides the browser binary; empty lets chromedp look it up.
	ExecPath string
	// Width is the viewport width in CSS pixels. 794 is 210mm at 96 dpi.
	Width   int64
	Scale   float64
	Timeout time.Duration
}

func NewChromeRasterizer(execPath string) *ChromeRasterizer {
	return &ChromeRasterizer{ExecPath: execPath, Width: 794, Scale: 2, Timeout: 30 * time.Second}
}

func (c *ChromeRasterizer) Rasterize(ctx context.Context, documentPath string) (image.Image, error) {
	abs, err := filepath.Abs(documentPath)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, c.Timeout)
		defer cancel()
	}

	width, scale := c.Width, c.Scale
	if width <= 0 {
		width = 794
	}
	if scale <= 0 {
		scale = 1
	}
	target := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	var shot []byte
	if err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(width, 1, chromedp.EmulateScale(scale)),
		chromedp.Navigate(target.String()),
		chromedp.FullScreenshot(&shot, 100),
	); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
