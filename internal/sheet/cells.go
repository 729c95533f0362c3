package sheet

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Cells come from whatever parsed the workbook: strings from excelize,
// float64/bool from JSON clients, nil for missing trailing cells.

func cellValue(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func cellString(row []any, i int) string {
	v := cellValue(row, i)
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func cellInt(row []any, i int) (int, bool) {
	v := cellValue(row, i)
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isRowEmpty(row []any) bool {
	for i := range row {
		if strings.TrimSpace(cellString(row, i)) != "" {
			return false
		}
	}
	return true
}

func yesNo(v bool) string {
	if v {
		return "Ya"
	}
	return "Tidak"
}
