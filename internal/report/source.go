package report

import "github.com/SapirCardona/linkedinsights/internal/workbook"

// Source is the read side of a workbook. *workbook.Workbook satisfies it.
type Source interface {
	ReadSheet(sheet string, headerOffset int) (*workbook.Table, error)
	Cell(sheet, axis string) (string, error)
}

// columns resolves several headers at once, failing on the first missing one
func columns(t *workbook.Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, err := t.ColumnIndex(n)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}

func blankRow(t *workbook.Table, i int, cols ...int) bool {
	for _, j := range cols {
		if t.Cell(i, j) != "" {
			return false
		}
	}
	return true
}

// number parses cell (i, j) and reports failures with their location
func number(t *workbook.Table, i, j int) (float64, error) {
	raw := t.Cell(i, j)
	v, err := workbook.ParseNumber(raw)
	if err != nil {
		return 0, &workbook.ValueError{
			Sheet:  t.Sheet,
			Column: t.Header[j],
			Row:    t.RowNumber(i),
			Value:  raw,
			Err:    err,
		}
	}
	return v, nil
}
