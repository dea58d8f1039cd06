package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2025-04-01T00:00:00Z", logger)
	ctx := context.Background()

	t.Run("health", func(t *testing.T) {
		h := hs.HealthCheck(ctx)
		assert.Equal(t, "ok", h.Status)
		assert.Equal(t, "1.2.3", h.Version)
	})

	t.Run("liveness", func(t *testing.T) {
		h := hs.LivenessCheck(ctx)
		assert.Equal(t, "alive", h.Status)
		assert.Contains(t, h.Runtime, "goroutines")
	})

	t.Run("version", func(t *testing.T) {
		v := hs.Version()
		assert.Equal(t, "1.2.3", v["version"])
		assert.Equal(t, "2025-04-01T00:00:00Z", v["build_time"])
	})

	t.Run("readiness", func(t *testing.T) {
		tests := []struct {
			name   string
			checks map[string]ServiceHealth
			want   string
		}{
			{"no checks", nil, StatusReady},
			{"all ready", map[string]ServiceHealth{"report": {Status: StatusReady}}, StatusReady},
			{"degraded is still ready", map[string]ServiceHealth{
				"report": {Status: StatusReady},
				"pdf":    {Status: StatusDegraded, Message: "chrome not found"},
			}, StatusReady},
			{"one not ready", map[string]ServiceHealth{
				"report": {Status: StatusNotReady, Message: "schema missing"},
				"pdf":    {Status: StatusReady},
			}, StatusNotReady},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				hs := NewHealthService("1.2.3", "", logger)
				for name, result := range tt.checks {
					result := result
					hs.Register(name, func(context.Context) ServiceHealth { return result })
				}

				h := hs.ReadinessCheck(ctx)
				assert.Equal(t, tt.want, h.Status)
				assert.Len(t, h.Services, len(tt.checks))
				for name, result := range tt.checks {
					assert.Equal(t, result, h.Services[name])
				}
			})
		}
		assert.True(t, logs.ContainsMessage("component not ready"))
	})
}
