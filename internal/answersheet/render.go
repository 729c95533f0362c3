package answersheet

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/answer_sheet.html
var templateFS embed.FS

var sheetTemplates = template.Must(template.ParseFS(templateFS, "templates/answer_sheet.html"))

type documentData struct {
	Subject   string
	Layout    Layout
	AutoPrint bool
}

// RenderFragment writes the sheet markup without a document wrapper.
func RenderFragment(w io.Writer, layout Layout) error {
	if err := sheetTemplates.ExecuteTemplate(w, "sheet", layout); err != nil {
		return fmt.Errorf("render answer sheet: %w", err)
	}
	return nil
}

// RenderPrintDocument returns a standalone page that opens the browser's
// print dialog on load and closes itself afterwards.
func RenderPrintDocument(layout Layout, subject string) ([]byte, error) {
	return renderDocument("print", documentData{Subject: subject, Layout: layout, AutoPrint: true})
}

// RenderPageDocument returns an A4-width page for off-screen rasterizing.
func RenderPageDocument(layout Layout) ([]byte, error) {
	return renderDocument("page", documentData{Layout: layout})
}

func renderDocument(name string, data documentData) ([]byte, error) {
	var buf bytes.Buffer
	if err := sheetTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s document: %w", name, err)
	}
	return buf.Bytes(), nil
}
