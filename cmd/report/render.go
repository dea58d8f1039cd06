package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/services"
)

type renderOptions struct {
	format string
	table  string
	out    string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <workbook.xlsx>",
		Short: "Render one workbook as html, json, csv, xlsx or pdf",
		Long: `Render builds the report for one LinkedIn export.

The output goes to --out, "-" for stdout, or next to the current directory
under a name derived from the workbook. CSV without --table writes every
table into the --out directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), rt, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "output format: html, json, csv, xlsx, pdf")
	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "table to export as CSV")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", `output file, or "-" for stdout`)
	return cmd
}

func runRender(ctx context.Context, rt *session, path string, opts *renderOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	b, err := generateFile(ctx, rt, path)
	if err != nil {
		return err
	}

	if format == exporter.FormatCSV && opts.table == "" {
		dir := opts.out
		if dir == "" {
			dir = "."
		}
		return writeAllTables(rt, b, dir)
	}

	out, err := rt.service.Export(ctx, b, services.ExportRequest{Format: format, Table: opts.table})
	if err != nil {
		return err
	}

	if opts.out == "-" {
		_, err = stdout.Write(out.Body)
		return err
	}
	dest := opts.out
	if dest == "" {
		dest = out.FileName
	}
	if err := os.WriteFile(dest, out.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	rt.logger.Info("report written",
		slog.String("file", dest),
		slog.String("format", string(format)),
		slog.Int("bytes", len(out.Body)))
	return nil
}

func generateFile(ctx context.Context, rt *session, path string) (*report.Bundle, error) {
	up, f, err := openUpload(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rt.service.Generate(ctx, up)
}

// writeAllTables writes one CSV per table, named like the download endpoint does
func writeAllTables(rt *session, b *report.Bundle, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range b.Tables() {
		path := filepath.Join(dir, exporter.FileName(b.Source, exporter.FormatCSV, t.Name))
		if err := rt.csv.WriteTableFile(path, t); err != nil {
			return err
		}
	}
	rt.logger.Info("tables written", slog.String("dir", dir), slog.Int("count", len(b.Tables())))
	return nil
}
