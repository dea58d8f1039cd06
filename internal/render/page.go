package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/SapirCardona/linkedinsights/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// UploadView feeds the upload form
type UploadView struct {
	AppName string
	Version string
	MaxMB   int64
	Accept  string
}

// ErrorView replaces the report when generation fails
type ErrorView struct {
	AppName string
	Title   string
	Message string
	Status  int
}

// ChartView is a rendered chart. Values is set when the spec asks for the
// numbers to be shown.
type ChartView struct {
	Spec   report.ChartSpec
	SVG    template.HTML
	Values []report.ChartPoint
}

// ReportView is the report page model
type ReportView struct {
	AppName   string
	Bundle    *report.Bundle
	Charts    []ChartView
	Skipped   int
	Printable bool
}

// PageRenderer renders the HTML pages from embedded templates
type PageRenderer struct {
	appName string
	tmpl    *template.Template
	logger  *slog.Logger
}

// NewPageRenderer parses the embedded templates
func NewPageRenderer(appName string, logger *slog.Logger) (*PageRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"number": report.FormatNumber,
		"slug":   report.Slug,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &PageRenderer{
		appName: appName,
		tmpl:    tmpl,
		logger:  logger.With(slog.String("component", "page_renderer")),
	}, nil
}

// Upload renders the landing page
func (p *PageRenderer) Upload(w io.Writer, v UploadView) error {
	v.AppName = p.appName
	return p.tmpl.ExecuteTemplate(w, "upload.html", v)
}

// Error renders a failed generation
func (p *PageRenderer) Error(w io.Writer, v ErrorView) error {
	v.AppName = p.appName
	return p.tmpl.ExecuteTemplate(w, "error.html", v)
}

// Report renders every chart of b and the page around them. printable drops
// the navigation for PDF output.
func (p *PageRenderer) Report(w io.Writer, b *report.Bundle, printable bool) error {
	v, err := p.reportView(b, printable)
	if err != nil {
		return err
	}
	return p.tmpl.ExecuteTemplate(w, "report.html", v)
}

func (p *PageRenderer) reportView(b *report.Bundle, printable bool) (ReportView, error) {
	v := ReportView{
		AppName:   p.appName,
		Bundle:    b,
		Skipped:   b.Followers.SkippedRows + b.PostingDays.SkippedRows + b.Engagement.SkippedRows,
		Printable: printable,
	}
	for _, spec := range b.Charts {
		svg, err := RenderSVG(spec)
		if err != nil {
			p.logger.Error("chart render failed", slog.String("chart", spec.ID), slog.String("error", err.Error()))
			return ReportView{}, err
		}
		cv := ChartView{Spec: spec, SVG: svg}
		if spec.ShowValues {
			cv.Values = spec.Points
		}
		v.Charts = append(v.Charts, cv)
	}
	return v, nil
}
