package liveplot

import (
	"fmt"
	"log"
	"time"
)

const (
	// DefaultUpdatePeriod is the minimum spacing between renders when the
	// config leaves UpdatePeriod at zero.
	DefaultUpdatePeriod = 100 * time.Millisecond

	DefaultWidth  = 80
	DefaultHeight = 20
)

// Layout carries rendering options through the core untouched. Renderers are
// free to ignore fields that do not apply to them.
type Layout struct {
	// Width and Height are the frame dimensions in terminal cells.
	Width  int
	Height int
	// Columns arranges per-series subplots into a grid; 0 lets the renderer
	// pick.
	Columns int
	// ShowAxis toggles axis drawing where the backend supports it.
	ShowAxis bool
	// LogScale plots log(y) instead of y.
	LogScale bool
	// SeriesColors maps series names to color names understood by the
	// backend. Unlisted series cycle through the backend's palette.
	SeriesColors map[string]string
}

// Config is immutable after New.
type Config struct {
	// UpdatePeriod is the minimum wall-clock spacing between renders.
	// Zero selects DefaultUpdatePeriod; negative is rejected.
	UpdatePeriod time.Duration
	// Background runs the render loop on its own goroutine; Record then only
	// appends and returns immediately. In the default synchronous mode the
	// render check (and the render itself) happens inline on Record.
	Background bool
	// Layout is passed through to the renderer.
	Layout Layout
	// Logger receives render failures from the background loop. Defaults to
	// the stdlib default logger.
	Logger *log.Logger
}

func (c *Config) validateAndNormalize() error {
	if c.UpdatePeriod < 0 {
		return fmt.Errorf("liveplot: update period must be >= 0, got %s", c.UpdatePeriod)
	}
	if c.UpdatePeriod == 0 {
		c.UpdatePeriod = DefaultUpdatePeriod
	}
	if c.Layout.Width <= 0 {
		c.Layout.Width = DefaultWidth
	}
	if c.Layout.Height <= 0 {
		c.Layout.Height = DefaultHeight
	}
	if c.Layout.Columns < 0 {
		return fmt.Errorf("liveplot: layout columns must be >= 0, got %d", c.Layout.Columns)
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return nil
}
