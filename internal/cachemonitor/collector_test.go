package cachemonitor

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	m := New()
	m.RecordHit("listings")
	m.RecordHit("listings")
	m.RecordMiss("listings")
	m.RecordError("listings")

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(m)))

	expected := `
# HELP cache_monitor_errors_total Cache errors recorded per namespace
# TYPE cache_monitor_errors_total counter
cache_monitor_errors_total{namespace="listings"} 1
# HELP cache_monitor_hits_total Cache hits recorded per namespace
# TYPE cache_monitor_hits_total counter
cache_monitor_hits_total{namespace="listings"} 2
# HELP cache_monitor_misses_total Cache misses recorded per namespace
# TYPE cache_monitor_misses_total counter
cache_monitor_misses_total{namespace="listings"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"cache_monitor_hits_total", "cache_monitor_misses_total", "cache_monitor_errors_total")
	assert.NoError(t, err)
}

func TestCollector_ReflectsClear(t *testing.T) {
	m := New()
	m.RecordHit("listings")
	c := NewCollector(m)

	assert.Equal(t, 5, testutil.CollectAndCount(c))

	m.Clear("listings")
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "cache_monitor_hits_total" {
			assert.Zero(t, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
}
