package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SapirCardona/linkedinsights/internal/config"
	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/infrastructure"
	"github.com/SapirCardona/linkedinsights/internal/render"
	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/services"
	"github.com/SapirCardona/linkedinsights/internal/validation"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	configFile    string
	schemaFile    string
	logLevel      string
	jobTitleLimit int
}

// session is what a subcommand needs once flags and config are resolved
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	files   *validation.FileValidator
	service *services.ReportService
	csv     *exporter.CSVWriter
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "linkedinsights",
		Short:         "Build analytics reports from LinkedIn export workbooks",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "config file (INSIGHTS_* environment variables still apply)")
	f.StringVar(&opts.schemaFile, "schema", "", "sheet schema YAML (default: built-in LinkedIn layout)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.IntVar(&opts.jobTitleLimit, "job-title-limit", 0, "number of job titles to keep (overrides the schema)")

	cmd.AddCommand(newRenderCmd(opts), newBatchCmd(opts))
	return cmd
}

// setup loads config, applies flag overrides and wires the report service
func (o *rootOptions) setup(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadFrom(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.schemaFile != "" {
		cfg.Report.SchemaFile = o.schemaFile
	}
	if o.jobTitleLimit > 0 {
		cfg.Report.JobTitleLimit = o.jobTitleLimit
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level)

	schema, err := report.SchemaFromConfig(cfg.Report)
	if err != nil {
		return nil, err
	}
	pages, err := render.NewPageRenderer(config.AppName, logger)
	if err != nil {
		return nil, err
	}

	files := validation.NewFileValidator(logger, cfg.Upload)
	csvWriter := exporter.NewCSVWriter(true, logger)
	return &session{
		cfg:    cfg,
		logger: logger,
		files:  files,
		csv:    csvWriter,
		service: services.NewReportService(services.ReportServiceDeps{
			Generator: report.NewGenerator(schema, logger),
			Files:     files,
			Pages:     pages,
			CSV:       csvWriter,
			PDF:       exporter.NewChromePrinter(cfg.Export, logger),
			Logger:    logger,
		}),
	}, nil
}

// openUpload opens a workbook on disk as an upload
func openUpload(path string) (services.Upload, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return services.Upload{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return services.Upload{}, nil, err
	}
	if info.IsDir() {
		f.Close()
		return services.Upload{}, nil, fmt.Errorf("%s is a directory", path)
	}
	return services.Upload{Filename: filepath.Base(path), Size: info.Size(), Body: f}, f, nil
}
