package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SapirCardona/linkedinsights/internal/report"
)

// Excel's sheet name limit
const maxSheetName = 31

// WriteXLSX writes every bundle table to its own sheet. Cells that hold a
// plain number are stored as numbers.
func WriteXLSX(w io.Writer, b *report.Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	used := make(map[string]bool)
	for i, t := range b.Tables() {
		name := uniqueSheetName(t.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := writeRow(f, name, 1, t.Columns); err != nil {
			return err
		}
		if len(t.Columns) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
			if err := f.SetCellStyle(name, "A1", last, header); err != nil {
				return err
			}
			lastCol, _ := excelize.ColumnNumberToName(len(t.Columns))
			if err := f.SetColWidth(name, "A", lastCol, 22); err != nil {
				return err
			}
		}
		for r, row := range t.Rows {
			if err := writeRow(f, name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "LinkedIn report " + b.Source,
		Creator: "linkedinsights",
		Created: b.GeneratedAt.Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			cells[i] = n
		} else {
			cells[i] = v
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

// uniqueSheetName truncates name and, when the result is taken, replaces its
// tail with "_2", "_3", ... Excel compares sheet names case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := sheetName(name)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := "_" + strconv.Itoa(n)
		base := name
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
