// Package workbook reads LinkedIn analytics exports through excelize.
//
// A sheet is read as a Table: the row at a declared header offset names the
// columns and every row below it is data. Columns are addressed by header
// name or by spreadsheet letter. Layout problems surface as *SchemaError,
// unreadable cells as *ValueError; both unwrap to the package sentinels.
package workbook
