package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_MetricsOnly(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		EnableMetrics:  true,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReport(ctx, 120*time.Millisecond, "")
	metrics.RecordReport(ctx, 10*time.Millisecond, "schema_mismatch")
	metrics.RecordUpload(ctx, 4096)
	metrics.RecordExport(ctx, "csv")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "reports_generated_total")
	assert.Contains(t, body, `reason="schema_mismatch"`)
	assert.Contains(t, body, "workbook_upload_bytes")
	assert.Contains(t, body, `format="csv"`)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordReport(context.Background(), time.Second, "")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_TracingCorrelation(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "test",
		EnableTracing: true,
		SampleRatio:   1.0,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "generate")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	RecordError(ctx, assert.AnError)
	AddSpanEvent(ctx, "checkpoint")
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordReport(context.Background(), time.Second, "x")
		m.RecordUpload(context.Background(), 1)
		m.RecordExport(context.Background(), "pdf")
	})
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.NotPanics(t, func() { RecordError(context.Background(), assert.AnError) })
}
