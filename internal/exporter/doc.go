// Package exporter writes a report bundle in downloadable formats: single
// tables as CSV, the whole bundle as an XLSX workbook, and the rendered
// report page as PDF through headless Chrome.
package exporter
