// Package monitor serves the cache monitor ops endpoint.
//
//	GET  /api/cache/monitor                      health and metrics of every namespace
//	GET  /api/cache/monitor?action=health        health only
//	GET  /api/cache/monitor?action=metrics       raw counters only
//	POST /api/cache/monitor?action=clear         reset counters
//
// Every form accepts namespace= to narrow the result to one namespace.
package monitor

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"estate-hub/internal/cachemonitor"
	"estate-hub/internal/handler/http/respond"
	"estate-hub/internal/observability/logging"
)

// Path is the route of the endpoint.
const Path = "/api/cache/monitor"

// Actions accepted in the action query parameter.
const (
	ActionHealth  = "health"
	ActionMetrics = "metrics"
	ActionClear   = "clear"
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:._-]{0,127}$`)

// Overview is the response of a GET without action.
type Overview struct {
	Health  cachemonitor.Report  `json:"health"`
	Metrics []cachemonitor.Entry `json:"metrics"`
}

// ClearResult is the response of a clear.
type ClearResult struct {
	Cleared string `json:"cleared"`
}

// Handler serves Path for one monitor.
type Handler struct {
	Monitor *cachemonitor.Monitor
}

// ServeHTTP dispatches on method and action.
// @Summary  Cache monitor
// @Tags     ops
// @Produce  json
// @Param    namespace query string false "cache namespace"
// @Param    action    query string false "health | metrics | clear"
// @Success  200 {object} respond.Envelope
// @Failure  400 {object} respond.Envelope
// @Failure  405 {object} respond.Envelope
// @Router   /api/cache/monitor [get]
// @Router   /api/cache/monitor [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		respond.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	ns := q.Get("namespace")
	if ns != "" && !namespacePattern.MatchString(ns) {
		respond.Fail(w, http.StatusBadRequest, "invalid namespace")
		return
	}

	action := q.Get("action")
	if action == "" && r.Method == http.MethodPost {
		action = ActionClear
	}

	switch action {
	case "":
		respond.OK(w, Overview{Health: h.Monitor.Health(ns), Metrics: h.Monitor.Metrics(ns)})
	case ActionHealth:
		respond.OK(w, h.Monitor.Health(ns))
	case ActionMetrics:
		respond.OK(w, h.Monitor.Metrics(ns))
	case ActionClear:
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			respond.Fail(w, http.StatusMethodNotAllowed, "clear must be POST")
			return
		}
		h.Monitor.Clear(ns)
		cleared := ns
		if cleared == "" {
			cleared = "all"
		}
		logging.FromContext(r.Context()).Info("cache monitor counters cleared",
			slog.String("namespace", cleared))
		respond.OK(w, ClearResult{Cleared: cleared})
	default:
		respond.Fail(w, http.StatusBadRequest, fmt.Sprintf("invalid action %q", action))
	}
}

// Register mounts the handler on mux.
func Register(mux *http.ServeMux, m *cachemonitor.Monitor) {
	mux.Handle(Path, Handler{Monitor: m})
}
