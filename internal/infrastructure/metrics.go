package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the HTTP and report pipeline instruments
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ReportsGenerated   metric.Int64Counter
	ReportDuration     metric.Float64Histogram
	ReportFailures     metric.Int64Counter
	WorkbookUploadSize metric.Int64Histogram
	ExportsTotal       metric.Int64Counter
}

// CreateBusinessMetrics registers the application instruments on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.ReportsGenerated, err = meter.Int64Counter(
		"reports_generated_total",
		metric.WithDescription("Reports generated successfully"),
	); err != nil {
		return nil, err
	}

	if m.ReportDuration, err = meter.Float64Histogram(
		"report_generation_duration_seconds",
		metric.WithDescription("Time spent parsing a workbook and building its report"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.ReportFailures, err = meter.Int64Counter(
		"report_failures_total",
		metric.WithDescription("Report generations that failed, by reason"),
	); err != nil {
		return nil, err
	}

	if m.WorkbookUploadSize, err = meter.Int64Histogram(
		"workbook_upload_bytes",
		metric.WithDescription("Size of uploaded workbooks"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"report_exports_total",
		metric.WithDescription("Report exports by format"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordReport records the outcome of one report generation. reason is
// empty on success.
func (m *BusinessMetrics) RecordReport(ctx context.Context, duration time.Duration, reason string) {
	if m == nil {
		return
	}

	status := "success"
	if reason != "" {
		status = "failure"
		m.ReportFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	} else {
		m.ReportsGenerated.Add(ctx, 1)
	}
	m.ReportDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// RecordUpload records the size of an accepted upload
func (m *BusinessMetrics) RecordUpload(ctx context.Context, size int64) {
	if m == nil {
		return
	}
	m.WorkbookUploadSize.Record(ctx, size)
}

// RecordExport counts one export in the given format
func (m *BusinessMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}
