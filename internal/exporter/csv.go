package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SapirCardona/linkedinsights/internal/report"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes report tables as CSV
type CSVWriter struct {
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter creates a writer; bom prefixes output with a UTF-8 BOM so
// Excel detects the encoding
func NewCSVWriter(bom bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{bom: bom, logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
}

// WriteCSV writes headers then records to w
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTable writes one bundle table
func (c *CSVWriter) WriteTable(w io.Writer, t report.Table) error {
	c.logger.Debug("writing csv table",
		slog.String("table", t.Name),
		slog.Int("record_count", len(t.Rows)))

	return WriteCSV(w, WriteOptions{
		Headers:   t.Columns,
		Records:   t.Rows,
		BOMPrefix: c.bom,
	})
}

// WriteTableFile writes a table to path, creating parent directories
func (c *CSVWriter) WriteTableFile(path string, t report.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := c.WriteTable(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
