package workbook

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table is one sheet split into a header row and the data rows below it.
// Rows are ragged; missing cells read as "".
type Table struct {
	Sheet     string
	Header    []string
	Rows      [][]string
	HeaderRow int // 1-based spreadsheet row of the header
	Date1904  bool
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the trimmed value at data row i, column j
func (t *Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][j])
}

// RowNumber maps data row i to its 1-based spreadsheet row
func (t *Table) RowNumber(i int) int {
	return t.HeaderRow + 1 + i
}

// ColumnIndex finds a header by name, exact match first, then ignoring case
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	want := strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(h, want) {
			return i, nil
		}
	}
	return -1, &SchemaError{Sheet: t.Sheet, Column: name, Err: ErrColumnNotFound}
}

// LetterIndex converts a column letter ("B") to a 0-based index
func (t *Table) LetterIndex(letter string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(letter)))
	if err != nil {
		return -1, &SchemaError{Sheet: t.Sheet, Column: letter, Err: ErrColumnNotFound}
	}
	return n - 1, nil
}

// Column returns every data value of the named column
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	return t.columnAt(idx), nil
}

// ColumnByLetter returns every data value of a positional column
func (t *Table) ColumnByLetter(letter string) ([]string, error) {
	idx, err := t.LetterIndex(letter)
	if err != nil {
		return nil, err
	}
	return t.columnAt(idx), nil
}

func (t *Table) columnAt(j int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, j)
	}
	return out
}

// FindRow returns the first data row whose column col equals label exactly
func (t *Table) FindRow(col int, label string) (int, bool) {
	for i := range t.Rows {
		if t.Cell(i, col) == label {
			return i, true
		}
	}
	return -1, false
}

// Date parses the cell at (i, j) as a date; see ParseDate
func (t *Table) Date(i, j int) (time.Time, bool) {
	return ParseDate(t.Cell(i, j), t.Date1904)
}
