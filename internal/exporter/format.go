package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output representation of a report
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format
var Formats = []Format{FormatHTML, FormatJSON, FormatCSV, FormatXLSX, FormatPDF}

// ParseFormat accepts a format name in any case; empty means HTML
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatHTML, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType is the MIME type served for f
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

// FileName derives a download name from the uploaded file:
// "export.xlsx" -> "export-report.pdf", or "export-<table>.csv" for CSV
func FileName(source string, f Format, table string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "linkedin"
	}
	suffix := "report"
	if f == FormatCSV && table != "" {
		suffix = table
	}
	return fmt.Sprintf("%s-%s.%s", base, suffix, f)
}
