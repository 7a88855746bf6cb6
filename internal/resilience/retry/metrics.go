package retry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeTimeout  = "timeout"
	outcomeCanceled = "canceled"

	resultSuccess   = "success"
	resultExhausted = "exhausted"
	resultPermanent = "permanent"
	resultCanceled  = "canceled"
)

var (
	// attemptsTotal counts individual attempts by call label and outcome.
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_attempts_total",
			Help: "Total number of resilient call attempts",
		},
		[]string{"label", "outcome"},
	)

	// exhaustedTotal counts calls that failed on every attempt.
	exhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_retries_exhausted_total",
			Help: "Total number of resilient calls that exhausted their retries",
		},
		[]string{"label"},
	)

	// callDuration measures the wall time of a whole call including backoff.
	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resilience_call_duration_seconds",
			Help:    "Duration of resilient calls including retries and backoff",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"label", "result"},
	)
)

func recordAttempt(label, outcome string) {
	attemptsTotal.WithLabelValues(label, outcome).Inc()
}

func recordExhausted(label string) {
	exhaustedTotal.WithLabelValues(label).Inc()
}

func recordCall(label, result string, d time.Duration) {
	callDuration.WithLabelValues(label, result).Observe(d.Seconds())
}
