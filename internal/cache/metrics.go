package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_store_operation_duration_seconds",
			Help:    "Duration of cache store operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"store", "op", "result"},
	)

	loaderLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_loader_loads_total",
			Help: "Loader invocations after a cache miss, by namespace and whether the load was shared",
		},
		[]string{"namespace", "shared"},
	)
)

func observeStoreOp(store, op, result string, d time.Duration) {
	storeOperationDuration.WithLabelValues(store, op, result).Observe(d.Seconds())
}
