package liveplot

import "sync"

// Renderer draws a snapshot into a displayable frame. Layout is forwarded
// verbatim; the core never interprets it.
type Renderer interface {
	Draw(snap Snapshot, layout Layout) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(snap Snapshot, layout Layout) (string, error)

func (f RendererFunc) Draw(snap Snapshot, layout Layout) (string, error) { return f(snap, layout) }

// Surface places a rendered frame on the output, replacing the previous one.
type Surface interface {
	Display(frame string) error
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(frame string) error

func (f SurfaceFunc) Display(frame string) error { return f(frame) }

// Dispatcher performs one render: snapshot the store, draw, display. The
// snapshot is taken inside Render so every render reflects the store contents
// at the moment it runs. Calls are serialized; the session's throttle already
// guarantees single flight, the mutex just keeps direct callers honest.
type Dispatcher struct {
	mu       sync.Mutex
	store    *Store
	renderer Renderer
	surface  Surface
	layout   Layout
}

func NewDispatcher(store *Store, renderer Renderer, surface Surface, layout Layout) *Dispatcher {
	return &Dispatcher{store: store, renderer: renderer, surface: surface, layout: layout}
}

// Render draws the current store contents and displays the frame. Failures
// are wrapped in *RenderError with the failing stage.
func (d *Dispatcher) Render() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := d.store.Snapshot()
	frame, err := d.renderer.Draw(snap, d.layout)
	if err != nil {
		return &RenderError{Stage: "draw", Err: err}
	}
	if err := d.surface.Display(frame); err != nil {
		return &RenderError{Stage: "display", Err: err}
	}
	return nil
}
