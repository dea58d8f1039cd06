package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SapirCardona/linkedinsights/internal/services"
	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name           string
		path           string
		pdfStatus      string
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]any)
	}{
		{
			name:           "health",
			path:           "/api/health",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
		{
			name:           "ready",
			path:           "/api/health/ready",
			pdfStatus:      services.StatusDegraded,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, services.StatusReady, body["status"])
				assert.Contains(t, body["services"], "pdf")
			},
		},
		{
			name:           "not ready",
			path:           "/api/health/ready",
			pdfStatus:      services.StatusNotReady,
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, services.StatusNotReady, body["status"])
			},
		},
		{
			name:           "live",
			path:           "/api/health/live",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "alive", body["status"])
				assert.Contains(t, body, "runtime")
			},
		},
		{
			name:           "version",
			path:           "/api/version",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "v1.0.0-test", body["version"])
				assert.Contains(t, body, "go_version")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewHealthService("v1.0.0-test", "", logger)
			if tt.pdfStatus != "" {
				svc.Register("pdf", func(context.Context) services.ServiceHealth {
					return services.ServiceHealth{Status: tt.pdfStatus}
				})
			}
			handler := NewHealthHandler(svc, logger)

			r := chi.NewRouter()
			r.Mount("/api/health", handler.Routes())
			r.Get("/api/version", handler.Version)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}
