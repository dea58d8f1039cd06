package workbook

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidWorkbook   = errors.New("invalid workbook")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrLabelNotFound     = errors.New("label not found")
	ErrInvalidNumber     = errors.New("invalid number")
	ErrInvalidPercentage = errors.New("invalid percentage")
)

// SchemaError reports a workbook whose layout does not match the declared
// schema: a missing sheet, column, cell or row label.
type SchemaError struct {
	Sheet  string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("sheet %q, column %q: %v", e.Sheet, e.Column, e.Err)
	}
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValueError reports a cell whose content cannot be interpreted. Row is the
// 1-based spreadsheet row.
type ValueError struct {
	Sheet  string
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sheet %q, column %q, row %d: %q: %v", e.Sheet, e.Column, e.Row, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
