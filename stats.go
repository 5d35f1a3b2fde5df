package liveplot

import (
	"sync"
	"sync/atomic"
	"time"
)

type durationRing struct {
	mu    sync.Mutex
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.idx] = d
	r.idx++
	if r.idx >= len(r.buf) {
		r.idx = 0
	}
	if r.count < len(r.buf) {
		r.count++
	}
}

// DurationStats summarizes recent render durations.
type DurationStats struct {
	Last time.Duration
	Max  time.Duration
	Avg  time.Duration
	N    int
}

func (r *durationRing) snapshot() DurationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return DurationStats{}
	}
	var sum, max time.Duration
	for i := 0; i < r.count; i++ {
		d := r.buf[i]
		sum += d
		if d > max {
			max = d
		}
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return DurationStats{
		Last: r.buf[lastIdx],
		Max:  max,
		Avg:  sum / time.Duration(r.count),
		N:    r.count,
	}
}

// Stats is a point-in-time view of a session's render loop counters.
type Stats struct {
	Records        uint64
	Renders        uint64
	Skips          uint64
	Coalesced      uint64
	RenderFailures uint64
	RenderLatency  DurationStats
}

const statsWindow = 256

type sessionMetrics struct {
	records        atomic.Uint64
	renders        atomic.Uint64
	skips          atomic.Uint64
	coalesced      atomic.Uint64
	renderFailures atomic.Uint64
	latency        *durationRing
}

func newSessionMetrics() *sessionMetrics {
	return &sessionMetrics{latency: newDurationRing(statsWindow)}
}

func (m *sessionMetrics) observeRecord() { m.records.Add(1) }
func (m *sessionMetrics) observeSkip()   { m.skips.Add(1) }
func (m *sessionMetrics) observeCoalesce() {
	m.coalesced.Add(1)
}

func (m *sessionMetrics) observeRender(d time.Duration, ok bool) {
	m.renders.Add(1)
	m.latency.add(d)
	if !ok {
		m.renderFailures.Add(1)
	}
}

func (m *sessionMetrics) snapshot() Stats {
	return Stats{
		Records:        m.records.Load(),
		Renders:        m.renders.Load(),
		Skips:          m.skips.Load(),
		Coalesced:      m.coalesced.Load(),
		RenderFailures: m.renderFailures.Load(),
		RenderLatency:  m.latency.snapshot(),
	}
}
