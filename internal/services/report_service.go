package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/infrastructure"
	"github.com/SapirCardona/linkedinsights/internal/render"
	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/validation"
	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

// Upload is a workbook as received from a client or read from disk
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ExportRequest selects the output format; Table is required for CSV
type ExportRequest struct {
	Format exporter.Format
	Table  string
}

// Export is a rendered report ready to be served or written
type Export struct {
	ContentType string
	FileName    string
	Body        []byte
}

// ReportServiceDeps wires a ReportService. Metrics and PDF may be nil.
type ReportServiceDeps struct {
	Generator *report.Generator
	Files     *validation.FileValidator
	Pages     *render.PageRenderer
	CSV       *exporter.CSVWriter
	PDF       exporter.PDFPrinter
	Metrics   *infrastructure.BusinessMetrics
	Logger    *slog.Logger
}

// ReportService turns uploads into report bundles and bundles into exports
type ReportService struct {
	generator *report.Generator
	files     *validation.FileValidator
	pages     *render.PageRenderer
	csv       *exporter.CSVWriter
	pdf       exporter.PDFPrinter
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewReportService creates the report service
func NewReportService(deps ReportServiceDeps) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	csvWriter := deps.CSV
	if csvWriter == nil {
		csvWriter = exporter.NewCSVWriter(true, logger)
	}
	return &ReportService{
		generator: deps.Generator,
		files:     deps.Files,
		pages:     deps.Pages,
		csv:       csvWriter,
		pdf:       deps.PDF,
		metrics:   deps.Metrics,
		tracer:    otel.Tracer(infrastructure.InstrumentationName),
		logger:    logger.With(slog.String("component", "report_service")),
	}
}

// Generate validates and parses an upload and runs the report pipeline.
// Failures are returned as *errors.AppError where the cause is known.
func (s *ReportService) Generate(ctx context.Context, up Upload) (*report.Bundle, error) {
	ctx, span := s.tracer.Start(ctx, "report_service.generate",
		trace.WithAttributes(
			attribute.String("upload.filename", up.Filename),
			attribute.Int64("upload.size", up.Size),
		))
	defer span.End()

	start := time.Now()
	s.metrics.RecordUpload(ctx, up.Size)

	b, err := s.generate(ctx, up)
	if err != nil {
		classified, reason := classify(err)
		s.metrics.RecordReport(ctx, time.Since(start), reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		infrastructure.LoggerWithContext(ctx).WarnContext(ctx, "report generation failed",
			slog.String("component", "report_service"),
			slog.String("file", up.Filename),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		return nil, classified
	}

	s.metrics.RecordReport(ctx, time.Since(start), "")
	span.SetAttributes(attribute.String("report.id", b.ID.String()))
	s.logger.InfoContext(ctx, "report ready",
		slog.String("report_id", b.ID.String()),
		slog.String("file", up.Filename),
		slog.Int64("size", up.Size),
		slog.Duration("duration", time.Since(start)))
	return b, nil
}

func (s *ReportService) generate(ctx context.Context, up Upload) (*report.Bundle, error) {
	if s.files != nil {
		if err := s.files.ValidateUpload(up.Filename, up.Size); err != nil {
			return nil, err
		}
	}

	wb, err := workbook.Open(up.Body, up.Filename)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	infrastructure.AddSpanEvent(ctx, "workbook.opened",
		attribute.StringSlice("sheets", wb.SheetNames()))

	return s.generator.Generate(ctx, wb, up.Filename)
}

// Export renders b in the requested format
func (s *ReportService) Export(ctx context.Context, b *report.Bundle, req ExportRequest) (*Export, error) {
	ctx, span := s.tracer.Start(ctx, "report_service.export",
		trace.WithAttributes(attribute.String("export.format", string(req.Format))))
	defer span.End()

	var buf bytes.Buffer
	var err error
	switch req.Format {
	case exporter.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(b)
	case exporter.FormatCSV:
		t, ok := b.Table(req.Table)
		if !ok {
			return nil, apierrors.NewAppError(apierrors.ErrTypeValidation,
				fmt.Sprintf("Unknown table %q", req.Table), ErrUnknownTable).
				WithContext("tables", s.Tables(b))
		}
		err = s.csv.WriteTable(&buf, t)
	case exporter.FormatXLSX:
		err = exporter.WriteXLSX(&buf, b)
	case exporter.FormatPDF:
		err = s.printPDF(ctx, &buf, b)
	case exporter.FormatHTML, "":
		req.Format = exporter.FormatHTML
		err = s.pages.Report(&buf, b, false)
	default:
		return nil, apierrors.NewAppError(apierrors.ErrTypeValidation,
			fmt.Sprintf("Unsupported format %q", req.Format), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", string(req.Format)),
			slog.String("report_id", b.ID.String()),
			slog.String("error", err.Error()))
		return nil, apierrors.NewAppError(apierrors.ErrTypeExport,
			fmt.Sprintf("The report could not be exported as %s", req.Format), err)
	}

	s.metrics.RecordExport(ctx, string(req.Format))
	return &Export{
		ContentType: req.Format.ContentType(),
		FileName:    exporter.FileName(b.Source, req.Format, req.Table),
		Body:        buf.Bytes(),
	}, nil
}

func (s *ReportService) printPDF(ctx context.Context, w io.Writer, b *report.Bundle) error {
	if s.pdf == nil {
		return ErrPDFUnavailable
	}
	var page bytes.Buffer
	if err := s.pages.Report(&page, b, true); err != nil {
		return err
	}
	pdf, err := s.pdf.Print(ctx, page.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(pdf)
	return err
}

// Tables lists the table names a bundle exposes for CSV export
func (s *ReportService) Tables(b *report.Bundle) []string {
	tables := b.Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
