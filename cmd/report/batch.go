package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/services"
)

type batchOptions struct {
	format  string
	out     string
	workers int
}

// batchResult is the outcome for one workbook
type batchResult struct {
	Path   string
	Output string
	Err    error
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Render every workbook in a directory",
		Long: `Batch renders each .xlsx file in <dir> into --out. A workbook that fails
is reported and skipped; the command fails if any workbook failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			results, err := runBatch(ctx, rt, args[0], opts)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s -> %s\n", r.Path, r.Output)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d workbooks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "output format: html, json, xlsx, pdf")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "reports", "output directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "workbooks rendered in parallel")
	return cmd
}

// runBatch renders every workbook in dir. Per-file failures are returned in
// the results; only setup problems abort the run.
func runBatch(ctx context.Context, rt *session, dir string, opts *batchOptions) ([]batchResult, error) {
	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	if format == exporter.FormatCSV {
		return nil, fmt.Errorf("csv has one file per table; use render --format csv per workbook")
	}
	paths, err := rt.files.ListWorkbooks(dir)
	if err != nil {
		return nil, err
	}
	if err := rt.files.ValidateOutputDirectory(opts.out); err != nil {
		return nil, err
	}
	rt.logger.Info("batch started",
		slog.String("dir", dir),
		slog.Int("workbooks", len(paths)),
		slog.String("format", string(format)))

	workers := opts.workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	results := make([]batchResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			output, err := renderOne(gctx, rt, path, format, opts.out)
			results[i] = batchResult{Path: path, Output: output, Err: err}
			if err != nil {
				rt.logger.Warn("workbook failed",
					slog.String("file", path),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rt.logger.Info("batch finished",
		slog.Int("workbooks", len(paths)),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}

func renderOne(ctx context.Context, rt *session, path string, format exporter.Format, outDir string) (string, error) {
	b, err := generateFile(ctx, rt, path)
	if err != nil {
		return "", err
	}
	out, err := rt.service.Export(ctx, b, services.ExportRequest{Format: format})
	if err != nil {
		return "", err
	}
	dest := filepath.Join(outDir, out.FileName)
	if err := os.WriteFile(dest, out.Body, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}
