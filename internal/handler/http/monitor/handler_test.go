package monitor_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-hub/internal/cachemonitor"
	"estate-hub/internal/handler/http/monitor"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func seeded() *cachemonitor.Monitor {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	m := cachemonitor.New(cachemonitor.WithClock(func() time.Time { return now }))
	m.RecordHit("listings:featured")
	m.RecordHit("listings:featured")
	m.RecordMiss("listings:featured")
	m.RecordError("communities")
	return m
}

func do(t *testing.T, m *cachemonitor.Monitor, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	mux := http.NewServeMux()
	monitor.Register(mux, m)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec, env
}

func TestGet_Overview(t *testing.T) {
	rec, env := do(t, seeded(), http.MethodGet, "/api/cache/monitor")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)

	var got monitor.Overview
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Metrics, 2)
	assert.Equal(t, "communities", got.Metrics[0].Namespace)
	assert.Equal(t, int64(2), got.Metrics[1].Hits)
	assert.Len(t, got.Health.Namespaces, 2)
}

func TestGet_HealthForNamespace(t *testing.T) {
	rec, env := do(t, seeded(), http.MethodGet, "/api/cache/monitor?action=health&namespace=listings:featured")
	require.Equal(t, http.StatusOK, rec.Code)

	var got cachemonitor.Report
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Namespaces, 1)
	assert.Equal(t, "listings:featured", got.Namespaces[0].Namespace)
	assert.InDelta(t, 2.0/3.0, got.Namespaces[0].HitRatio, 1e-9)
	assert.Equal(t, cachemonitor.StatusHealthy, got.Status)
}

func TestGet_MetricsRawShape(t *testing.T) {
	_, env := do(t, seeded(), http.MethodGet, "/api/cache/monitor?action=metrics&namespace=communities")

	assert.JSONEq(t,
		`[{"namespace":"communities","hits":0,"misses":0,"errors":1,"last_access":"2026-10-01T12:00:00Z"}]`,
		string(env.Data))
}

func TestGet_UnknownNamespaceIsZeroed(t *testing.T) {
	m := seeded()
	_, env := do(t, m, http.MethodGet, "/api/cache/monitor?action=metrics&namespace=nope")

	var got []cachemonitor.Entry
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(0), got[0].Hits)
	assert.NotContains(t, m.Namespaces(), "nope")
}

func TestGet_ClearIsMethodNotAllowed(t *testing.T) {
	m := seeded()
	rec, env := do(t, m, http.MethodGet, "/api/cache/monitor?action=clear")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	assert.Equal(t, int64(2), m.Metrics("listings:featured")[0].Hits)
}

func TestPost_ClearOneNamespace(t *testing.T) {
	m := seeded()
	rec, env := do(t, m, http.MethodPost, "/api/cache/monitor?action=clear&namespace=listings:featured")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cleared":"listings:featured"}`, string(env.Data))
	assert.Equal(t, int64(0), m.Metrics("listings:featured")[0].Hits)
	assert.Equal(t, int64(1), m.Metrics("communities")[0].Errors)
}

func TestPost_DefaultsToClearAll(t *testing.T) {
	m := seeded()
	rec, env := do(t, m, http.MethodPost, "/api/cache/monitor")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cleared":"all"}`, string(env.Data))
	for _, e := range m.Metrics("") {
		assert.Zero(t, e.Requests(), e.Namespace)
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"unknown action", http.MethodGet, "/api/cache/monitor?action=flush", http.StatusBadRequest},
		{"unknown post action", http.MethodPost, "/api/cache/monitor?action=flush", http.StatusBadRequest},
		{"invalid namespace", http.MethodGet, "/api/cache/monitor?namespace=%3Cscript%3E", http.StatusBadRequest},
		{"delete", http.MethodDelete, "/api/cache/monitor", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, seeded(), tt.method, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}
