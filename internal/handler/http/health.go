package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"estate-hub/internal/cachemonitor"
	"estate-hub/internal/handler/http/respond"
	"estate-hub/internal/observability/metrics"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the body of the /health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pinger is a dependency that can report reachability, e.g. the Redis store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Breaker reports a circuit breaker state name.
type Breaker interface {
	State() string
}

// HealthHandler reports the state of the database, the shared cache tier and
// the cache monitor.
//
// Only the database decides between 200 and 503. The cache is optional: an
// unreachable store or an unhealthy monitor makes the service degraded, not
// unavailable.
type HealthHandler struct {
	DB           *sql.DB
	Cache        Pinger  // optional
	CacheBreaker Breaker // optional
	Monitor      *cachemonitor.Monitor
	Version      string
}

// ServeHTTP runs every configured check.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	} else {
		checks["database"] = CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}
	if h.Cache != nil {
		checks["cache_store"] = h.checkCacheStore(ctx)
	}
	if h.Monitor != nil {
		checks["cache_monitor"] = h.checkMonitor()
	}

	status := StatusHealthy
	statusCode := http.StatusOK
	for name, c := range checks {
		switch {
		case c.Status == StatusUnhealthy && name == "database":
			status = StatusUnhealthy
			statusCode = http.StatusServiceUnavailable
		case c.Status != StatusHealthy && status == StatusHealthy:
			status = StatusDegraded
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkDatabase pings the database and reports pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Warn("health: database ping failed", slog.Any("error", err))
		return CheckStatus{Status: StatusUnhealthy, Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	metrics.UpdateDBConnectionStats(stats)
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	// MaxOpenConnections is 0 when the pool is unbounded.
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkCacheStore(ctx context.Context) CheckStatus {
	details := map[string]any{}
	if h.CacheBreaker != nil {
		details["circuit_breaker"] = h.CacheBreaker.State()
	}
	if err := h.Cache.Ping(ctx); err != nil {
		slog.Warn("health: cache store ping failed", slog.Any("error", err))
		return CheckStatus{Status: StatusDegraded, Message: "cache store unreachable, serving from database", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkMonitor() CheckStatus {
	report := h.Monitor.Health("")
	details := map[string]any{"namespaces": len(report.Namespaces)}
	for _, ns := range report.Namespaces {
		if ns.Status != cachemonitor.StatusHealthy {
			details[ns.Namespace] = string(ns.Status)
		}
	}
	if report.Status == cachemonitor.StatusHealthy {
		return CheckStatus{Status: StatusHealthy, Details: details}
	}
	return CheckStatus{
		Status:  StatusDegraded,
		Message: "cache namespaces " + string(report.Status),
		Details: details,
	}
}

// ReadyHandler answers readiness probes: ready once the database responds.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
