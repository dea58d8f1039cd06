package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/render"
	"github.com/SapirCardona/linkedinsights/internal/services"
	"github.com/SapirCardona/linkedinsights/internal/validation"
)

const (
	// FormField is the multipart field carrying the workbook
	FormField = "file"

	// room for multipart boundaries and headers on top of the file itself
	multipartOverhead = 64 << 10
	multipartMemory   = 8 << 20
)

// ReportHandlerConfig carries what the upload page advertises
type ReportHandlerConfig struct {
	AppName    string
	Version    string
	MaxBytes   int64
	Extensions []string
}

// ReportHandler serves the upload page and turns uploads into reports
type ReportHandler struct {
	service      ReportServiceInterface
	pages        *render.PageRenderer
	validator    *validation.RequestValidator
	errorHandler *apierrors.ErrorHandler
	cfg          ReportHandlerConfig
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	service ReportServiceInterface,
	pages *render.PageRenderer,
	cfg ReportHandlerConfig,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *ReportHandler {
	return &ReportHandler{
		service:      service,
		pages:        pages,
		validator:    validation.NewRequestValidator(),
		errorHandler: errorHandler,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "report_handler")),
	}
}

// RegisterPages adds the browser routes: the upload form and its target
func (h *ReportHandler) RegisterPages(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/report", h.SubmitForm)
}

// APIRoutes returns the routes mounted under /api/reports
func (h *ReportHandler) APIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateReport)
	return r
}

// Index handles GET /
func (h *ReportHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.pages.Upload(w, render.UploadView{
		AppName: h.cfg.AppName,
		Version: h.cfg.Version,
		MaxMB:   h.cfg.MaxBytes >> 20,
		Accept:  strings.Join(h.cfg.Extensions, ","),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render upload page",
			slog.String("error", err.Error()))
	}
}

// SubmitForm handles POST /report from the upload form. Failures are shown
// as an HTML page instead of the report.
func (h *ReportHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	defer cleanup()

	b, err := h.service.Generate(r.Context(), up)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	out, err := h.service.Export(r.Context(), b, services.ExportRequest{Format: exporter.FormatHTML})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

// CreateReport handles POST /api/reports?format=&table=
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req := validation.ReportRequest{
		Format: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))),
		Table:  strings.TrimSpace(r.URL.Query().Get("table")),
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(errs))
		return
	}
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	up, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	h.logger.InfoContext(r.Context(), "generating report",
		slog.String("request_id", reqID),
		slog.String("file", up.Filename),
		slog.String("format", string(format)))

	b, err := h.service.Generate(r.Context(), up)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.service.Export(r.Context(), b, services.ExportRequest{Format: format, Table: req.Table})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("X-Report-ID", b.ID.String())
	if format != exporter.FormatHTML && format != exporter.FormatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

// readUpload extracts the workbook part. cleanup releases the part and any
// temporary files the multipart reader spilled to disk.
func (h *ReportHandler) readUpload(w http.ResponseWriter, r *http.Request) (services.Upload, func(), error) {
	if h.cfg.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return services.Upload{}, nil, apierrors.ErrPayloadTooLarge
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, nil, apierrors.ErrMissingFile
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	cleanup := func() {
		_ = file.Close()
		removeForm(r.MultipartForm)
	}
	return services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}, cleanup, nil
}

func removeForm(form *multipart.Form) {
	if form != nil {
		_ = form.RemoveAll()
	}
}

// renderError shows err as an HTML page with the status the API would use
func (h *ReportHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.errorHandler.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "report page failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(problem.Status)
	if err := h.pages.Error(w, render.ErrorView{
		AppName: h.cfg.AppName,
		Title:   problem.Title,
		Message: problem.Detail,
		Status:  problem.Status,
	}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render error page",
			slog.String("error", err.Error()))
	}
}
