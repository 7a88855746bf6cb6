package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Listing read outcomes.
const (
	ReadSuccess  = "success"
	ReadNotFound = "not_found"
	ReadFallback = "fallback"
	ReadError    = "error"
)

// Business metrics track listing reads and cache warming
var (
	// ListingReadsTotal counts listing service reads by query and outcome
	ListingReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_reads_total",
			Help: "Total number of listing reads by query and outcome",
		},
		[]string{"query", "result"},
	)

	// ListingFallbacksTotal counts reads answered by the fallback policy
	ListingFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_fallbacks_total",
			Help: "Total number of listing reads served by the fallback policy",
		},
		[]string{"query", "policy"},
	)

	// WarmupRunsTotal counts cache warmup runs by status
	WarmupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_warmup_runs_total",
			Help: "Total number of cache warmup runs",
		},
		[]string{"status"},
	)

	// WarmupDuration measures a full warmup run
	WarmupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cache_warmup_duration_seconds",
			Help:    "Time taken by a cache warmup run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// WarmupKeysTotal counts warmed keys by namespace and outcome
	WarmupKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_warmup_keys_total",
			Help: "Total number of cache keys processed by warmup",
		},
		[]string{"namespace", "result"},
	)

	// WarmupLastSuccess is the Unix time of the last successful run
	WarmupLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_warmup_last_success_timestamp",
			Help: "Unix timestamp of the last successful cache warmup",
		},
	)
)

// RecordListingRead records the outcome of one listing service read.
func RecordListingRead(query, result string) {
	ListingReadsTotal.WithLabelValues(query, result).Inc()
}

// RecordListingFallback records a read served by the fallback policy.
func RecordListingFallback(query, policy string) {
	ListingFallbacksTotal.WithLabelValues(query, policy).Inc()
	ListingReadsTotal.WithLabelValues(query, ReadFallback).Inc()
}

// RecordWarmupRun records a finished warmup run.
func RecordWarmupRun(duration time.Duration, err error) {
	WarmupDuration.Observe(duration.Seconds())
	if err != nil {
		WarmupRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	WarmupRunsTotal.WithLabelValues("success").Inc()
	WarmupLastSuccess.SetToCurrentTime()
}

// RecordWarmupKey records one warmed key.
func RecordWarmupKey(namespace string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	WarmupKeysTotal.WithLabelValues(namespace, result).Inc()
}
