package config

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration loading for one component.
type ConfigMetrics struct {
	LoadTimestamp  prometheus.Gauge
	FallbacksTotal *prometheus.CounterVec
	FallbackActive *prometheus.GaugeVec

	component string
}

// NewConfigMetrics registers the component's config metrics with reg.
// Metric names are prefixed with component, e.g. "api_config_fallbacks_total".
func NewConfigMetrics(component string, reg prometheus.Registerer) *ConfigMetrics {
	factory := promauto.With(reg)
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_load_timestamp",
			Help: "Unix timestamp of the last " + component + " configuration load",
		}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_fallbacks_total",
			Help: "Settings of " + component + " that fell back to their default",
		}, []string{"field"}),
		FallbackActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: component + "_config_fallback_active",
			Help: "1 while the field runs on its default because the configured value was invalid",
		}, []string{"field"}),
		component: component,
	}
}

// RecordLoadTimestamp marks a completed configuration load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// Observe logs and counts the outcome of loading field.
func Observe[T any](m *ConfigMetrics, field string, r Result[T]) T {
	if r.FallbackApplied {
		slog.Warn("configuration fallback applied",
			slog.String("component", m.component),
			slog.String("field", field),
			slog.String("warning", r.Warning))
		m.FallbacksTotal.WithLabelValues(field).Inc()
		m.FallbackActive.WithLabelValues(field).Set(1)
	} else {
		m.FallbackActive.WithLabelValues(field).Set(0)
	}
	return r.Value
}
