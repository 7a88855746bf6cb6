package cachemonitor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	a := Default()
	b := Default()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestNew_IsIsolated(t *testing.T) {
	a := New()
	b := New()
	a.RecordHit("listings")

	assert.Equal(t, int64(1), a.Metrics("listings")[0].Hits)
	assert.Equal(t, int64(0), b.Metrics("listings")[0].Hits)
	assert.NotSame(t, a, Default())
}

func TestRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	m := New(WithClock(fixedClock(now)))

	m.RecordHit("listings")
	m.RecordHit("listings")
	m.RecordMiss("listings")
	m.RecordError("listings")
	m.RecordMiss("communities")

	got := m.Metrics("")
	want := []Entry{
		{Namespace: "communities", Misses: 1, LastAccess: now},
		{Namespace: "listings", Hits: 2, Misses: 1, Errors: 1, LastAccess: now},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Metrics() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_EmptyNamespace(t *testing.T) {
	m := New()
	m.RecordHit("")
	assert.Equal(t, []string{DefaultNamespace}, m.Namespaces())
}

func TestMetrics_UnknownNamespaceIsZeroed(t *testing.T) {
	m := New()
	got := m.Metrics("nope")
	assert.Equal(t, []Entry{{Namespace: "nope"}}, got)
	assert.Empty(t, m.Namespaces(), "reading must not create namespaces")
}

func TestClear_OnlyNamedNamespace(t *testing.T) {
	m := New()
	m.RecordHit("listings")
	m.RecordError("listings")
	m.RecordHit("communities")

	m.Clear("listings")

	listings := m.Metrics("listings")[0]
	assert.Equal(t, int64(0), listings.Hits)
	assert.Equal(t, int64(0), listings.Errors)
	assert.True(t, listings.LastAccess.IsZero())
	assert.Equal(t, int64(1), m.Metrics("communities")[0].Hits)
}

func TestClear_All(t *testing.T) {
	m := New()
	m.RecordHit("listings")
	m.RecordMiss("communities")

	m.Clear("")

	for _, e := range m.Metrics("") {
		assert.Zero(t, e.Requests(), e.Namespace)
	}
}

func TestEntryRatios(t *testing.T) {
	e := Entry{Hits: 3, Misses: 1, Errors: 1}
	assert.Equal(t, int64(5), e.Requests())
	assert.InDelta(t, 0.75, e.HitRatio(), 1e-9)
	assert.InDelta(t, 0.2, e.ErrorRate(), 1e-9)

	var empty Entry
	assert.Zero(t, empty.HitRatio())
	assert.Zero(t, empty.ErrorRate())
}

func TestMonitor_ConcurrentRecording(t *testing.T) {
	m := New()
	const workers, perWorker = 8, 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ns := fmt.Sprintf("ns-%d", w%2)
			for i := 0; i < perWorker; i++ {
				m.RecordHit(ns)
				m.RecordMiss(ns)
				if i%50 == 0 {
					_ = m.Health("")
				}
			}
		}(w)
	}
	wg.Wait()

	var hits, misses int64
	for _, e := range m.Metrics("") {
		hits += e.Hits
		misses += e.Misses
	}
	assert.Equal(t, int64(workers*perWorker), hits)
	assert.Equal(t, int64(workers*perWorker), misses)
}
