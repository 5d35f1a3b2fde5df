package liveplot

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type sessionState int

const (
	sessionRunning sessionState = iota
	sessionStopping
	sessionStopped
)

// Session is one live plot: a series store, a render throttle, and either a
// caller-driven or a background render loop.
//
// In synchronous mode Record may block for the duration of a render. In
// background mode Record only appends; a dedicated goroutine wakes on the
// update period and renders when new data arrived. A render that hangs the
// backend stalls only this session's loop; renders carry no timeout.
type Session struct {
	id         string
	cfg        Config
	store      *Store
	throttle   *Throttle
	dispatcher *Dispatcher
	metrics    *sessionMetrics

	now      func() time.Time
	rendered atomic.Uint64 // sample count covered by the last render

	mu           sync.Mutex
	state        sessionState
	endCallbacks []func()

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a session and, in background mode, starts its render loop.
func New(cfg Config, renderer Renderer, surface Surface) (*Session, error) {
	if renderer == nil {
		return nil, ErrNilRenderer
	}
	if surface == nil {
		return nil, ErrNilSurface
	}
	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	store := NewStore()
	s := &Session{
		id:         uuid.NewString()[:8],
		cfg:        cfg,
		store:      store,
		throttle:   NewThrottle(cfg.UpdatePeriod),
		dispatcher: NewDispatcher(store, renderer, surface, cfg.Layout),
		metrics:    newSessionMetrics(),
		now:        time.Now,
	}
	if cfg.Background {
		s.stop = make(chan struct{})
		s.wg.Add(1)
		go s.loop()
	}
	return s, nil
}

// ID returns the session's short unique identifier.
func (s *Session) ID() string { return s.id }

// Record appends one value per named series at the next step. A "step" key
// overrides the step. In synchronous mode a render may run inline and its
// error is returned; in background mode Record returns immediately.
func (s *Session) Record(values Metrics) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if err := s.store.Record(values); err != nil {
		return err
	}
	s.metrics.observeRecord()
	if s.cfg.Background {
		return nil
	}
	return s.renderIfDue()
}

// RecordAt is Record with an explicit step.
func (s *Session) RecordAt(step float64, values Metrics) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if err := s.store.RecordAt(step, values); err != nil {
		return err
	}
	s.metrics.observeRecord()
	if s.cfg.Background {
		return nil
	}
	return s.renderIfDue()
}

// ForceRender flushes the current data to the surface regardless of the
// update period. If a render is in flight the flush folds into its owed
// follow-up.
func (s *Session) ForceRender() error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.throttle.Force(s.now()) == DecisionRender {
		return s.renderCycle()
	}
	return nil
}

// Close stops the background loop if any, performs one final forced render so
// nothing recorded before Close is lost, then runs the registered end
// callbacks. Idempotent; the second call is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state != sessionRunning {
		s.mu.Unlock()
		return nil
	}
	s.state = sessionStopping
	s.mu.Unlock()

	if s.cfg.Background {
		close(s.stop)
		s.wg.Wait()
	}

	var err error
	if s.throttle.Force(s.now()) == DecisionRender {
		err = s.renderCycle()
	}

	s.mu.Lock()
	s.state = sessionStopped
	cbs := s.endCallbacks
	s.endCallbacks = nil
	s.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
	return err
}

// OnSessionEnd registers a callback to run after the final flush on Close.
// Registering on a closed session runs the callback immediately.
func (s *Session) OnSessionEnd(cb func()) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	if s.state == sessionStopped {
		s.mu.Unlock()
		cb()
		return
	}
	s.endCallbacks = append(s.endCallbacks, cb)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current series data.
func (s *Session) Snapshot() Snapshot { return s.store.Snapshot() }

// Stats returns the session's render loop counters.
func (s *Session) Stats() Stats { return s.metrics.snapshot() }

func (s *Session) checkRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != sessionRunning {
		return ErrSessionClosed
	}
	return nil
}

// renderIfDue asks the throttle and renders when told to.
func (s *Session) renderIfDue() error {
	switch s.throttle.Notify(s.now()) {
	case DecisionRender:
		return s.renderCycle()
	case DecisionSkip:
		s.metrics.observeSkip()
	case DecisionCoalesce:
		s.metrics.observeCoalesce()
	}
	return nil
}

// renderCycle runs one render plus at most one coalesced catch-up. The
// catch-up's own completion is checked exactly once, so completion never
// recurses.
func (s *Session) renderCycle() error {
	err := s.renderOnce()
	if s.throttle.Complete(s.now()) {
		err2 := s.renderOnce()
		s.throttle.Complete(s.now())
		if err == nil {
			err = err2
		}
	}
	return err
}

func (s *Session) renderOnce() error {
	n := s.store.SampleCount()
	start := s.now()
	err := s.dispatcher.Render()
	s.metrics.observeRender(s.now().Sub(start), err == nil)
	if err == nil {
		s.rendered.Store(n)
	}
	return err
}

// loop is the background render loop. It wakes on the update period, renders
// when new samples arrived, and never exits on a render failure; only Close
// stops it.
func (s *Session) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.UpdatePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.store.SampleCount() == s.rendered.Load() {
				continue
			}
			if err := s.renderIfDue(); err != nil {
				s.cfg.Logger.Printf("liveplot: session %s: %v", s.id, err)
			}
		}
	}
}
