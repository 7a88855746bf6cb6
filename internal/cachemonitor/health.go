package cachemonitor

import "time"

// Status is the health classification of a namespace.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

// Thresholds decide when a namespace stops being healthy.
type Thresholds struct {
	// DegradedErrorRate and UnhealthyErrorRate are error-rate cut-offs (0..1).
	DegradedErrorRate  float64
	UnhealthyErrorRate float64

	// MinHitRatio marks a namespace degraded when its hit ratio falls below it.
	MinHitRatio float64

	// MinRequests is the sample size below which ratios are not judged.
	MinRequests int64
}

// DefaultThresholds returns the thresholds used by New.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DegradedErrorRate:  0.05,
		UnhealthyErrorRate: 0.25,
		MinHitRatio:        0.5,
		MinRequests:        20,
	}
}

// Classify returns the status of e under t.
func (t Thresholds) Classify(e Entry) Status {
	if e.Requests() < t.MinRequests {
		return StatusHealthy
	}
	errRate := e.ErrorRate()
	switch {
	case errRate >= t.UnhealthyErrorRate:
		return StatusUnhealthy
	case errRate >= t.DegradedErrorRate:
		return StatusDegraded
	case e.HitRatio() < t.MinHitRatio:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// NamespaceHealth summarises one namespace.
type NamespaceHealth struct {
	Namespace  string    `json:"namespace"`
	Status     Status    `json:"status"`
	HitRatio   float64   `json:"hit_ratio"`
	ErrorRate  float64   `json:"error_rate"`
	Requests   int64     `json:"requests"`
	Errors     int64     `json:"errors"`
	LastAccess time.Time `json:"last_access"`
}

// Report is the health of one or all namespaces plus the worst status among them.
type Report struct {
	Status     Status            `json:"status"`
	Namespaces []NamespaceHealth `json:"namespaces"`
}

// Health summarises namespace, or every namespace when empty.
func (m *Monitor) Health(namespace string) Report {
	entries := m.Metrics(namespace)

	report := Report{
		Status:     StatusHealthy,
		Namespaces: make([]NamespaceHealth, 0, len(entries)),
	}
	for _, e := range entries {
		h := NamespaceHealth{
			Namespace:  e.Namespace,
			Status:     m.thresholds.Classify(e),
			HitRatio:   e.HitRatio(),
			ErrorRate:  e.ErrorRate(),
			Requests:   e.Requests(),
			Errors:     e.Errors,
			LastAccess: e.LastAccess,
		}
		if h.Status.rank() > report.Status.rank() {
			report.Status = h.Status
		}
		report.Namespaces = append(report.Namespaces, h)
	}
	return report
}
