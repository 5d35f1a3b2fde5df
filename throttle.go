package liveplot

import (
	"sync"
	"time"
)

// Decision is the outcome of asking the throttle whether to render.
type Decision int

const (
	// DecisionRender means the caller now owns the render; it must call
	// Complete when the render finishes.
	DecisionRender Decision = iota
	// DecisionSkip means the update period has not elapsed yet.
	DecisionSkip
	// DecisionCoalesce means a render is in flight and one follow-up render
	// is already owed; the request folds into it.
	DecisionCoalesce
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionSkip:
		return "skip"
	case DecisionCoalesce:
		return "coalesce"
	}
	return "unknown"
}

type throttleState int

const (
	stateIdle throttleState = iota
	stateRendering
	stateRenderingPending
)

// Throttle decides when a redraw is due. At most one render is in flight and
// at most one follow-up is pending; requests arriving while a render runs
// collapse into that single pending slot, never a queue.
type Throttle struct {
	mu         sync.Mutex
	period     time.Duration
	state      throttleState
	lastRender time.Time
}

// NewThrottle returns a throttle enforcing the given minimum period between
// renders. A zero or negative period renders on every notify.
func NewThrottle(period time.Duration) *Throttle {
	return &Throttle{period: period}
}

// Notify reports whether a render is due at now. The first notify always
// renders; afterwards the period gate applies.
func (t *Throttle) Notify(now time.Time) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case stateIdle:
		if t.period > 0 && !t.lastRender.IsZero() && now.Sub(t.lastRender) < t.period {
			return DecisionSkip
		}
		t.state = stateRendering
		return DecisionRender
	case stateRendering:
		t.state = stateRenderingPending
		return DecisionCoalesce
	default: // stateRenderingPending
		return DecisionCoalesce
	}
}

// Force behaves like Notify with the period gate removed. Used for the final
// flush on close so the most recent data is always shown.
func (t *Throttle) Force(now time.Time) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == stateIdle {
		t.state = stateRendering
		return DecisionRender
	}
	t.state = stateRenderingPending
	return DecisionCoalesce
}

// Complete records the render that just finished. If requests were coalesced
// while it ran, the throttle stays in the rendering state and Complete
// returns true: the caller owes exactly one catch-up render (which bypasses
// the period gate, since it was already owed) and must call Complete again
// after it. Callers run at most one catch-up per cycle, so completion never
// loops.
func (t *Throttle) Complete(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastRender = now
	if t.state == stateRenderingPending {
		t.state = stateRendering
		return true
	}
	t.state = stateIdle
	return false
}

// LastRender returns the completion time of the most recent render.
func (t *Throttle) LastRender() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRender
}
