package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/SapirCardona/linkedinsights/internal/config"
	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
	"github.com/SapirCardona/linkedinsights/internal/exporter"
	"github.com/SapirCardona/linkedinsights/internal/infrastructure"
	customMiddleware "github.com/SapirCardona/linkedinsights/internal/middleware"
	"github.com/SapirCardona/linkedinsights/internal/render"
	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/services"
	handlers "github.com/SapirCardona/linkedinsights/internal/transport/http"
	"github.com/SapirCardona/linkedinsights/internal/validation"
)

// BuildTime is set at link time with -ldflags "-X .../internal/app.BuildTime=..."
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Reports       *services.ReportService
	Health        *services.HealthService

	errorHandler *apierrors.ErrorHandler
	pages        *render.PageRenderer
	printer      *exporter.ChromePrinter
	generator    *report.Generator
}

// NewApplication loads configuration and logging, then builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewAppError(apierrors.ErrTypeConfig, "failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component from cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices builds the report pipeline and the health checks
func (a *Application) initializeServices() error {
	schema, err := report.SchemaFromConfig(a.Config.Report)
	if err != nil {
		return apierrors.NewAppError(apierrors.ErrTypeConfig, "failed to load report schema", err).
			WithContext("schema_file", a.Config.Report.SchemaFile)
	}
	a.generator = report.NewGenerator(schema, a.Logger)

	pages, err := render.NewPageRenderer(config.AppName, a.Logger)
	if err != nil {
		return err
	}
	a.pages = pages
	a.printer = exporter.NewChromePrinter(a.Config.Export, a.Logger)

	a.Reports = services.NewReportService(services.ReportServiceDeps{
		Generator: a.generator,
		Files:     validation.NewFileValidator(a.Logger, a.Config.Upload),
		Pages:     pages,
		CSV:       exporter.NewCSVWriter(true, a.Logger),
		PDF:       a.printer,
		Metrics:   a.Metrics,
		Logger:    a.Logger,
	})

	a.Health = services.NewHealthService(config.AppVersion, BuildTime, a.Logger)
	a.Health.Register("report", a.checkReport)
	a.Health.Register("pdf", a.checkPDF)
	return nil
}

func (a *Application) checkReport(context.Context) services.ServiceHealth {
	if a.generator == nil || a.generator.Schema() == nil {
		return services.ServiceHealth{Status: services.StatusNotReady, Message: "report schema not loaded"}
	}
	return services.ServiceHealth{Status: services.StatusReady}
}

// checkPDF only degrades: every other format works without Chrome
func (a *Application) checkPDF(context.Context) services.ServiceHealth {
	path, ok := a.printer.Available()
	if !ok {
		return services.ServiceHealth{Status: services.StatusDegraded, Message: "chrome not found, pdf export disabled"}
	}
	return services.ServiceHealth{Status: services.StatusReady, Message: path}
}

// setupRouter applies middleware in the order
// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → CORS → RateLimit → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.errorHandler,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		a.setupRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) setupRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Mount("/api/health", healthHandler.Routes())
	r.Get("/api/version", healthHandler.Version)

	reportHandler := handlers.NewReportHandler(a.Reports, a.pages, handlers.ReportHandlerConfig{
		AppName:    config.AppName,
		Version:    config.AppVersion,
		MaxBytes:   a.Config.Upload.MaxBytes,
		Extensions: a.Config.Upload.AllowedExtensions,
	}, a.Logger, a.errorHandler)

	r.With(customMiddleware.ContentTypeValidator(a.errorHandler, "multipart/form-data")).
		Mount("/api/reports", reportHandler.APIRoutes())
	reportHandler.RegisterPages(r)
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Report-ID",
			"X-Request-ID",
		},
		MaxAge: 300,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.Int64("max_upload_bytes", a.Config.Upload.MaxBytes))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck logs components that are not fully ready
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Health.ReadinessCheck(ctx)
	for name, s := range status.Services {
		if s.Status != services.StatusReady {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("component", name),
				slog.String("status", s.Status),
				slog.String("message", s.Message))
		}
	}
}
