package answersheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrNoPrintTarget = errors.New("no print target available")

// PrintDriver hands a print document to whatever shows the print dialog.
type PrintDriver interface {
	Print(ctx context.Context, document []byte) error
}

// Print renders the print document for layout and passes it to driver. A
// missing print target is not an error; nothing is printed.
func Print(ctx context.Context, driver PrintDriver, layout Layout, subject string) error {
	if driver == nil {
		return nil
	}
	doc, err := RenderPrintDocument(layout, subject)
	if err != nil {
		return err
	}
	if err := driver.Print(ctx, doc); err != nil {
		if errors.Is(err, ErrNoPrintTarget) {
			return nil
		}
		return fmt.Errorf("print answer sheet: %w", err)
	}
	return nil
}

// ResponsePrinter prints by serving the document to the browser that asked
// for it; the embedded script opens the dialog.
type ResponsePrinter struct {
	W http.ResponseWriter
}

func (p ResponsePrinter) Print(ctx context.Context, document []byte) error {
	if p.W == nil {
		return ErrNoPrintTarget
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	p.W.Header().Set("Cache-Control", "no-store")
	p.W.WriteHeader(http.StatusOK)
	_, err := p.W.Write(document)
	return err
}
