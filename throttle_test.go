package liveplot

import (
	"testing"
	"time"
)

func TestThrottleNotify(t *testing.T) {
	t0 := time.Unix(0, 0)
	period := 50 * time.Millisecond

	t.Run("first notify renders immediately", func(t *testing.T) {
		th := NewThrottle(period)
		if got := th.Notify(t0); got != DecisionRender {
			t.Fatalf("want render, got %s", got)
		}
	})

	t.Run("skips until the period elapses", func(t *testing.T) {
		th := NewThrottle(period)
		th.Notify(t0)
		th.Complete(t0)

		if got := th.Notify(t0.Add(10 * time.Millisecond)); got != DecisionSkip {
			t.Errorf("want skip at +10ms, got %s", got)
		}
		if got := th.Notify(t0.Add(49 * time.Millisecond)); got != DecisionSkip {
			t.Errorf("want skip at +49ms, got %s", got)
		}
		if got := th.Notify(t0.Add(50 * time.Millisecond)); got != DecisionRender {
			t.Errorf("want render at +50ms, got %s", got)
		}
	})

	t.Run("zero period renders on every notify", func(t *testing.T) {
		th := NewThrottle(0)
		for i := 0; i < 3; i++ {
			if got := th.Notify(t0); got != DecisionRender {
				t.Fatalf("notify %d: want render, got %s", i, got)
			}
			th.Complete(t0)
		}
	})
}

func TestThrottleCoalescing(t *testing.T) {
	t0 := time.Unix(0, 0)

	t.Run("N notifies in flight owe exactly one follow-up", func(t *testing.T) {
		th := NewThrottle(50 * time.Millisecond)
		if got := th.Notify(t0); got != DecisionRender {
			t.Fatalf("want render, got %s", got)
		}
		for i := 0; i < 10; i++ {
			if got := th.Notify(t0); got != DecisionCoalesce {
				t.Fatalf("notify %d: want coalesce, got %s", i, got)
			}
		}
		if !th.Complete(t0) {
			t.Fatal("completion must owe one catch-up render")
		}
		// The catch-up's own completion re-checks exactly once.
		if th.Complete(t0) {
			t.Fatal("second completion must not owe another render")
		}
	})

	t.Run("no pending means no follow-up", func(t *testing.T) {
		th := NewThrottle(50 * time.Millisecond)
		th.Notify(t0)
		if th.Complete(t0) {
			t.Fatal("completion without coalesced requests owes nothing")
		}
	})

	t.Run("complete records the render time", func(t *testing.T) {
		th := NewThrottle(50 * time.Millisecond)
		th.Notify(t0)
		done := t0.Add(20 * time.Millisecond)
		th.Complete(done)
		if got := th.LastRender(); !got.Equal(done) {
			t.Errorf("want last render %v, got %v", done, got)
		}
	})
}

func TestThrottleForce(t *testing.T) {
	t0 := time.Unix(0, 0)

	t.Run("bypasses the period gate", func(t *testing.T) {
		th := NewThrottle(time.Hour)
		th.Notify(t0)
		th.Complete(t0)

		if got := th.Notify(t0.Add(time.Millisecond)); got != DecisionSkip {
			t.Fatalf("want skip, got %s", got)
		}
		if got := th.Force(t0.Add(time.Millisecond)); got != DecisionRender {
			t.Errorf("want render from force, got %s", got)
		}
	})

	t.Run("folds into an in-flight render", func(t *testing.T) {
		th := NewThrottle(time.Hour)
		th.Notify(t0)
		if got := th.Force(t0); got != DecisionCoalesce {
			t.Fatalf("want coalesce, got %s", got)
		}
		if !th.Complete(t0) {
			t.Error("forced request must survive as the owed follow-up")
		}
	})
}
