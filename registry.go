package liveplot

import "sync"

// Registry manages one session per execution context (for example, one per
// notebook cell or per benchmark run), with explicit create-or-reuse
// semantics instead of hidden module-level state. Factories are invoked per
// session so stateful renderers are never shared.
type Registry struct {
	cfg         Config
	newRenderer func() Renderer
	newSurface  func() Surface

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config, newRenderer func() Renderer, newSurface func() Surface) *Registry {
	return &Registry{
		cfg:         cfg,
		newRenderer: newRenderer,
		newSurface:  newSurface,
		sessions:    make(map[string]*Session),
	}
}

// Session returns the session for the given context id, creating it on first
// use.
func (r *Registry) Session(contextID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[contextID]; ok {
		return s, nil
	}
	s, err := New(r.cfg, r.newRenderer(), r.newSurface())
	if err != nil {
		return nil, err
	}
	r.sessions[contextID] = s
	return s, nil
}

// Line records values on the context's session, creating it on first use.
// This is the explicit counterpart of an ambient plot(...) call.
func (r *Registry) Line(contextID string, values Metrics) error {
	s, err := r.Session(contextID)
	if err != nil {
		return err
	}
	return s.Record(values)
}

// EndContext closes and forgets the context's session, flushing its final
// frame. Unknown ids are a no-op.
func (r *Registry) EndContext(contextID string) error {
	r.mu.Lock()
	s, ok := r.sessions[contextID]
	delete(r.sessions, contextID)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Close()
}

// CloseAll closes every active session, returning the first error.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var first error
	for _, s := range sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Active returns the number of open sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
