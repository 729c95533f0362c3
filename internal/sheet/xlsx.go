package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet = errors.New("excel sheet is empty")
	ErrNoRows  = errors.New("no data rows found")
)

// Reader parses the first worksheet of a workbook into raw rows.
type Reader interface {
	ReadRows(ctx context.Context, r io.Reader) ([][]any, error)
}

// Writer serializes rows into a single-sheet workbook.
type Writer interface {
	WriteRows(ctx context.Context, w io.Writer, sheet string, rows [][]any) error
}

// XLSX implements Reader and Writer on excelize.
type XLSX struct {
	// ColWidth is applied to every written column; zero keeps the default.
	ColWidth float64
}

func NewXLSX() *XLSX {
	return &XLSX{ColWidth: 22}
}

func (x *XLSX) ReadRows(ctx context.Context, r io.Reader) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoRows
	}

	rows := make([][]any, len(raw))
	for i, cells := range raw {
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		rows[i] = row
	}
	return rows, nil
}

func (x *XLSX) WriteRows(ctx context.Context, w io.Writer, sheet string, rows [][]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	width := 0
	for r, row := range rows {
		if len(row) > width {
			width = len(row)
		}
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	if x.ColWidth > 0 && width > 0 {
		last, _ := excelize.ColumnNumberToName(width)
		_ = f.SetColWidth(sheet, "A", last, x.ColWidth)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write excel: %w", err)
	}
	return nil
}
