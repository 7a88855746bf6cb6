package slo

import (
	"context"
	"sort"
	"sync"
	"time"
)

type sample struct {
	duration time.Duration
	failed   bool
}

// Tracker keeps the most recent requests in a ring and derives the SLO gauges
// from them. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	samples []sample
	next    int
	full    bool
}

// NewTracker returns a Tracker over the last size requests.
func NewTracker(size int) *Tracker {
	if size < 1 {
		size = 1
	}
	return &Tracker{samples: make([]sample, size)}
}

// Observe records one served request. Only server errors count against
// availability.
func (t *Tracker) Observe(duration time.Duration, status int) {
	t.mu.Lock()
	t.samples[t.next] = sample{duration: duration, failed: status >= 500}
	t.next++
	if t.next == len(t.samples) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()
}

// Snapshot summarises the window.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	LatencyP95   time.Duration
	LatencyP99   time.Duration
}

// Snapshot computes availability, error rate and tail latency over the window.
// An empty window reports full availability.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	n := t.next
	if t.full {
		n = len(t.samples)
	}
	window := make([]sample, n)
	copy(window, t.samples[:n])
	t.mu.Unlock()

	if n == 0 {
		return Snapshot{Availability: 1}
	}

	durations := make([]time.Duration, n)
	failed := 0
	for i, s := range window {
		durations[i] = s.duration
		if s.failed {
			failed++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	errRate := float64(failed) / float64(n)
	return Snapshot{
		Requests:     n,
		Availability: 1 - errRate,
		ErrorRate:    errRate,
		LatencyP95:   percentile(durations, 0.95),
		LatencyP99:   percentile(durations, 0.99),
	}
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(p*float64(len(sorted))+0.999999) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

// Publish writes the current snapshot to the SLO gauges.
func (t *Tracker) Publish() Snapshot {
	s := t.Snapshot()
	UpdateAvailability(s.Availability)
	UpdateErrorRate(s.ErrorRate)
	UpdateLatencyP95(s.LatencyP95.Seconds())
	UpdateLatencyP99(s.LatencyP99.Seconds())
	return s
}

// Run publishes every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Publish()
		}
	}
}
