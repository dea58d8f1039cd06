package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only view over an uploaded spreadsheet
type Workbook struct {
	name     string
	file     *excelize.File
	date1904 bool
}

// Open parses an .xlsx stream. name is only used for reporting.
func Open(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	return newWorkbook(f, name), nil
}

// OpenFile opens a workbook from disk
func OpenFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	return newWorkbook(f, path), nil
}

func newWorkbook(f *excelize.File, name string) *Workbook {
	wb := &Workbook{name: name, file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

// Name returns the name the workbook was opened with
func (w *Workbook) Name() string {
	return w.name
}

// Close releases the underlying file
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the sheets in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// resolveSheet matches exactly first, then ignoring case and surrounding space
func (w *Workbook) resolveSheet(name string) (string, error) {
	sheets := w.file.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	want := strings.TrimSpace(name)
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return s, nil
		}
	}
	return "", &SchemaError{Sheet: name, Err: ErrSheetNotFound}
}

// ReadSheet loads a sheet as a table whose header is the row at the 0-based
// headerOffset. Cell values are raw, so dates arrive as serial numbers.
func (w *Workbook) ReadSheet(sheet string, headerOffset int) (*Table, error) {
	actual, err := w.resolveSheet(sheet)
	if err != nil {
		return nil, err
	}

	rows, err := w.file.GetRows(actual, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", actual, err)
	}

	t := &Table{
		Sheet:     actual,
		HeaderRow: headerOffset + 1,
		Date1904:  w.date1904,
	}
	if headerOffset < len(rows) {
		t.Header = trimAll(rows[headerOffset])
		t.Rows = padRows(rows[headerOffset+1:], len(t.Header))
	}
	return t, nil
}

// padRows extends short rows to width so header-indexed access never misses
func padRows(rows [][]string, width int) [][]string {
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

// Cell reads a single raw cell such as "A1"
func (w *Workbook) Cell(sheet, axis string) (string, error) {
	actual, err := w.resolveSheet(sheet)
	if err != nil {
		return "", err
	}

	v, err := w.file.GetCellValue(actual, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", &SchemaError{Sheet: actual, Column: axis, Err: err}
	}
	return strings.TrimSpace(v), nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
