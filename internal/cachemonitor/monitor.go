package cachemonitor

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultNamespace is used when a caller records against an empty namespace.
const DefaultNamespace = "default"

// Entry is a snapshot of the raw counters for one namespace.
type Entry struct {
	Namespace  string    `json:"namespace"`
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Errors     int64     `json:"errors"`
	LastAccess time.Time `json:"last_access"`
}

// Requests is the number of recorded lookups of any outcome.
func (e Entry) Requests() int64 {
	return e.Hits + e.Misses + e.Errors
}

// HitRatio is hits over hits plus misses, or 0 before any lookup completed.
func (e Entry) HitRatio() float64 {
	total := e.Hits + e.Misses
	if total == 0 {
		return 0
	}
	return float64(e.Hits) / float64(total)
}

// ErrorRate is errors over all requests, or 0 with no requests.
func (e Entry) ErrorRate() float64 {
	total := e.Requests()
	if total == 0 {
		return 0
	}
	return float64(e.Errors) / float64(total)
}

type counters struct {
	hits       atomic.Int64
	misses     atomic.Int64
	errors     atomic.Int64
	lastAccess atomic.Int64 // unix nanoseconds, 0 when never accessed
}

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.errors.Store(0)
	c.lastAccess.Store(0)
}

func (c *counters) snapshot(ns string) Entry {
	e := Entry{
		Namespace: ns,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Errors:    c.errors.Load(),
	}
	if ts := c.lastAccess.Load(); ts != 0 {
		e.LastAccess = time.Unix(0, ts).UTC()
	}
	return e
}

// Monitor records cache outcomes per namespace. It is safe for concurrent use.
type Monitor struct {
	mu         sync.RWMutex
	entries    map[string]*counters
	thresholds Thresholds
	now        func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithThresholds overrides the health thresholds.
func WithThresholds(t Thresholds) Option {
	return func(m *Monitor) { m.thresholds = t }
}

// WithClock overrides the time source used for LastAccess.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates an empty Monitor.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		entries:    make(map[string]*counters),
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var (
	defaultOnce    sync.Once
	defaultMonitor *Monitor
)

// Default returns the process-wide Monitor. Every call returns the same pointer.
func Default() *Monitor {
	defaultOnce.Do(func() {
		defaultMonitor = New()
	})
	return defaultMonitor
}

// RecordHit counts a cache hit in namespace.
func (m *Monitor) RecordHit(namespace string) {
	c := m.counters(namespace)
	c.hits.Add(1)
	c.lastAccess.Store(m.now().UnixNano())
}

// RecordMiss counts a cache miss in namespace.
func (m *Monitor) RecordMiss(namespace string) {
	c := m.counters(namespace)
	c.misses.Add(1)
	c.lastAccess.Store(m.now().UnixNano())
}

// RecordError counts a failed cache or load operation in namespace.
func (m *Monitor) RecordError(namespace string) {
	c := m.counters(namespace)
	c.errors.Add(1)
	c.lastAccess.Store(m.now().UnixNano())
}

func (m *Monitor) counters(namespace string) *counters {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m.mu.RLock()
	c, ok := m.entries[namespace]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.entries[namespace]; ok {
		return c
	}
	c = &counters{}
	m.entries[namespace] = c
	return c
}

// Metrics returns raw counters. With a namespace it returns exactly one entry,
// zeroed if nothing was recorded for it. With an empty namespace it returns
// every known namespace sorted by name.
func (m *Monitor) Metrics(namespace string) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if namespace != "" {
		if c, ok := m.entries[namespace]; ok {
			return []Entry{c.snapshot(namespace)}
		}
		return []Entry{{Namespace: namespace}}
	}

	out := make([]Entry, 0, len(m.entries))
	for ns, c := range m.entries {
		out = append(out, c.snapshot(ns))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out
}

// Namespaces returns the names of every namespace recorded so far, sorted.
func (m *Monitor) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.entries))
	for ns := range m.entries {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Clear zeroes the counters of namespace, or of every namespace when empty.
// Other namespaces are left untouched.
func (m *Monitor) Clear(namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if namespace != "" {
		if c, ok := m.entries[namespace]; ok {
			c.reset()
		}
		return
	}
	for _, c := range m.entries {
		c.reset()
	}
}
