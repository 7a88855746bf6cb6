package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"estate-hub/internal/cachemonitor"
	hhttp "estate-hub/internal/handler/http"
	hmonitor "estate-hub/internal/handler/http/monitor"
	workerPkg "estate-hub/internal/infra/worker"
)

// mountOpsRoutes adds the operational endpoints to the worker's health server:
//   - GET /metrics: Prometheus scrape endpoint
//   - GET/POST /api/cache/monitor: the cache monitor, as on the API
//
// The worker warms through its own monitor, so its hit and error counts
// describe warmup traffic rather than visitor traffic.
func mountOpsRoutes(hs *workerPkg.HealthServer, monitor *cachemonitor.Monitor, gatherer prometheus.Gatherer) {
	hs.Handle("/metrics", hhttp.MetricsHandler(gatherer))
	hs.Handle(hmonitor.Path, hmonitor.Handler{Monitor: monitor})
}
