package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"estate-hub/internal/handler/http/pathutil"
	"estate-hub/internal/handler/http/responsewriter"
	"estate-hub/internal/observability/metrics"
	"estate-hub/internal/observability/slo"
)

// Metrics returns middleware recording request count, latency and response
// size per normalized route. When tracker is non-nil every request is also fed
// into the SLO window.
func Metrics(tracker *slo.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			// /api/listings/harbor-view -> /api/listings/:slug
			path := pathutil.NormalizePath(r.URL.Path)

			rw := responsewriter.Wrap(w)
			start := time.Now()
			next.ServeHTTP(rw, r)
			duration := time.Since(start)

			metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.StatusCode()), duration, rw.BytesWritten())
			if tracker != nil {
				tracker.Observe(duration, rw.StatusCode())
			}
		})
	}
}

// MetricsHandler returns the Prometheus scrape handler for gatherer.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
