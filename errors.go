package liveplot

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned by Record and ForceRender after Close.
	// Post-close writes are a programmer error and are never dropped silently.
	ErrSessionClosed = errors.New("liveplot: session closed")

	ErrNilRenderer = errors.New("liveplot: renderer is nil")
	ErrNilSurface  = errors.New("liveplot: surface is nil")
)

// InvalidSampleError reports a value that cannot be plotted (NaN, ±Inf, or an
// empty series name). The offending Record call leaves the store untouched.
type InvalidSampleError struct {
	Series string
	Value  float64
	Reason string
}

func (e *InvalidSampleError) Error() string {
	if e.Series == "" {
		return fmt.Sprintf("liveplot: invalid sample: %s", e.Reason)
	}
	return fmt.Sprintf("liveplot: invalid sample for series %q: %s", e.Series, e.Reason)
}

// RenderError wraps a failure from the rendering backend or the output
// surface. Synchronous sessions propagate it to the caller; background
// sessions log it and keep the loop alive.
type RenderError struct {
	Stage string // "draw" or "display"
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("liveplot: render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
