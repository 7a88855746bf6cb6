package cachemonitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Monitor's counters to Prometheus at scrape time.
type Collector struct {
	monitor *Monitor

	hits     *prometheus.Desc
	misses   *prometheus.Desc
	errors   *prometheus.Desc
	hitRatio *prometheus.Desc
	status   *prometheus.Desc
}

// NewCollector returns a Collector reading from m.
func NewCollector(m *Monitor) *Collector {
	labels := []string{"namespace"}
	return &Collector{
		monitor:  m,
		hits:     prometheus.NewDesc("cache_monitor_hits_total", "Cache hits recorded per namespace", labels, nil),
		misses:   prometheus.NewDesc("cache_monitor_misses_total", "Cache misses recorded per namespace", labels, nil),
		errors:   prometheus.NewDesc("cache_monitor_errors_total", "Cache errors recorded per namespace", labels, nil),
		hitRatio: prometheus.NewDesc("cache_monitor_hit_ratio", "Hits over hits plus misses per namespace", labels, nil),
		status: prometheus.NewDesc("cache_monitor_health_status",
			"Namespace health (0=healthy, 1=degraded, 2=unhealthy)", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.errors
	ch <- c.hitRatio
	ch <- c.status
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, h := range c.monitor.Health("").Namespaces {
		ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, h.HitRatio, h.Namespace)
		ch <- prometheus.MustNewConstMetric(c.status, prometheus.GaugeValue, float64(h.Status.rank()), h.Namespace)
	}
	for _, e := range c.monitor.Metrics("") {
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(e.Hits), e.Namespace)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(e.Misses), e.Namespace)
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(e.Errors), e.Namespace)
	}
}
