package cache

import "sync/atomic"

// Metrics counts cache operations. All counters are monotonic between
// resets and safe for concurrent use.
type Metrics struct {
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

// MetricsSnapshot is a point-in-time view of the counters. HitRate is
// hits/(hits+misses), or 0 when no reads have happened.
type MetricsSnapshot struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Deletes int64   `json:"deletes"`
	HitRate float64 `json:"hitRate"`
}

// NewMetrics creates a zeroed Metrics
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordHit()    { m.hits.Add(1) }
func (m *Metrics) RecordMiss()   { m.misses.Add(1) }
func (m *Metrics) RecordSet()    { m.sets.Add(1) }
func (m *Metrics) RecordDelete() { m.deletes.Add(1) }

// Snapshot returns the current counter values
func (m *Metrics) Snapshot() MetricsSnapshot {
	hits := m.hits.Load()
	misses := m.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:    hits,
		Misses:  misses,
		Sets:    m.sets.Load(),
		Deletes: m.deletes.Load(),
		HitRate: hitRate,
	}
}

// Reset zeroes all counters
func (m *Metrics) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
	m.sets.Store(0)
	m.deletes.Store(0)
}
