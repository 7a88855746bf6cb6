package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHealthServer() *HealthServer {
	return NewHealthServer("127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var response healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, response
}

func TestHealthServer_Liveness(t *testing.T) {
	server := newTestHealthServer()

	code, response := get(t, server.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", response.Status)
}

func TestHealthServer_Readiness_Transition(t *testing.T) {
	server := newTestHealthServer()
	handler := server.Handler()

	code, response := get(t, handler, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", response.Status)

	server.SetReady(true)
	code, response = get(t, handler, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", response.Status)

	server.SetReady(false)
	code, _ = get(t, handler, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealthServer_LastRun(t *testing.T) {
	server := newTestHealthServer()
	server.SetReady(true)

	_, response := get(t, server.Handler(), "/health/ready")
	assert.Nil(t, response.LastRun)

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	server.SetLastRun(RunStatus{FinishedAt: finished, Succeeded: true, Listings: 42, Failed: 1})

	_, response = get(t, server.Handler(), "/health/ready")
	require.NotNil(t, response.LastRun)
	assert.True(t, response.LastRun.FinishedAt.Equal(finished))
	assert.Equal(t, 42, response.LastRun.Listings)
	assert.Equal(t, 1, response.LastRun.Failed)
}

func TestHealthServer_ExtraRoutes(t *testing.T) {
	server := newTestHealthServer()
	server.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	}))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	server := newTestHealthServer()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down")
	}
}
