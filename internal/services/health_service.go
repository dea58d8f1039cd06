package services

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Component states reported by readiness checks
const (
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDegraded = "degraded"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	startTime time.Time
	logger    *slog.Logger

	mu     sync.RWMutex
	checks map[string]HealthCheckFunc
}

// HealthCheckFunc reports the state of one component
type HealthCheckFunc func(ctx context.Context) ServiceHealth

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service with no registered checks
func NewHealthService(version, buildTime string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
		checks:    make(map[string]HealthCheckFunc),
	}
}

// Register adds a readiness check under name, replacing any previous one
func (hs *HealthService) Register(name string, check HealthCheckFunc) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.checks[name] = check
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every registered check. A single not_ready component
// makes the service not ready; degraded components do not.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	hs.mu.RLock()
	names := make([]string, 0, len(hs.checks))
	checks := make(map[string]HealthCheckFunc, len(hs.checks))
	for name, check := range hs.checks {
		names = append(names, name)
		checks[name] = check
	}
	hs.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(names)),
	}

	for _, name := range names {
		check := checks[name]
		result := check(ctx)
		status.Services[name] = result
		if result.Status == StatusNotReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "component not ready",
				slog.String("check", name),
				slog.String("message", result.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}
