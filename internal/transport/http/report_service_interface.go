package http

import (
	"context"

	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/services"
)

// ReportServiceInterface defines the report operations the handlers need
type ReportServiceInterface interface {
	Generate(ctx context.Context, up services.Upload) (*report.Bundle, error)
	Export(ctx context.Context, b *report.Bundle, req services.ExportRequest) (*services.Export, error)
}
