package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
	"github.com/SapirCardona/linkedinsights/internal/infrastructure"
	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generates id", incoming: ""},
		{name: "keeps caller id", incoming: "abc-123", wantSame: true},
		{name: "replaces oversized id", incoming: strings.Repeat("x", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenReqID, seenTraceID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenReqID = middleware.GetReqID(r.Context())
				seenTraceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seenReqID)
			assert.Equal(t, seenReqID, seenTraceID)
			assert.Equal(t, seenReqID, rec.Header().Get(RequestIDHeader))
			if tt.wantSame {
				assert.Equal(t, tt.incoming, seenReqID)
			} else {
				assert.Len(t, seenReqID, 36)
			}
		})
	}
}

func TestStructuredLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  slog.Level
	}{
		{http.StatusOK, slog.LevelInfo},
		{http.StatusUnprocessableEntity, slog.LevelWarn},
		{http.StatusInternalServerError, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/report", nil))

			testutil.AssertLogContains(t, handler, tt.level, "http request")
			testutil.AssertLogAttr(t, handler, "path", "/report")
		})
	}
}

func TestRateLimiter(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.001, 1, apierrors.NewErrorHandler(logger, false), logger)
	h := rl.Handler(http.HandlerFunc(okHandler))

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:5000").Code)

	rec := request("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, apierrors.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), apierrors.TypeRateLimit)
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "rate limit exceeded")
	testutil.AssertLogAttr(t, handler, "client_ip", "10.0.0.1")

	assert.Equal(t, http.StatusOK, request("10.0.0.2:5000").Code, "other clients keep their own bucket")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.001, 1, apierrors.NewErrorHandler(logger, false), logger)

	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("10.0.0.1"))
	require.False(t, rl.allow("10.0.0.1"))

	now = now.Add(limiterIdleTTL + time.Second)
	assert.True(t, rl.allow("10.0.0.2"))
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	var hasDeadline bool
	h := Timeout(10*time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
		<-r.Context().Done()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, hasDeadline)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "request deadline exceeded")
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}})(http.HandlerFunc(okHandler))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/reports", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'none'")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestContentTypeValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)
	h := ContentTypeValidator(eh, "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"multipart accepted", http.MethodPost, "multipart/form-data; boundary=xyz", http.StatusOK},
		{"get skipped", http.MethodGet, "", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing rejected", http.MethodPost, "", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reports", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOTelMiddleware_RecordsRoute(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "test",
		EnableMetrics: true,
	}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(providers.Tracer, metrics).Handler)
	r.Get("/api/health", okHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `route="/api/health"`)
}
