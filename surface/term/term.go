// Package term writes rendered frames to a terminal with replace semantics:
// each frame overwrites the previous one in place instead of scrolling.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	xterm "github.com/charmbracelet/x/term"
)

// Surface writes frames to w. The first frame is printed as-is; subsequent
// frames move the cursor back up over the previous frame and clear below
// before printing.
type Surface struct {
	mu        sync.Mutex
	w         io.Writer
	lastLines int
}

func New(w io.Writer) *Surface { return &Surface{w: w} }

func (s *Surface) Display(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastLines > 0 {
		if _, err := fmt.Fprintf(s.w, "\x1b[%dA\x1b[J", s.lastLines); err != nil {
			return err
		}
	}
	if !strings.HasSuffix(frame, "\n") {
		frame += "\n"
	}
	if _, err := io.WriteString(s.w, frame); err != nil {
		return err
	}
	s.lastLines = strings.Count(frame, "\n")
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return xterm.IsTerminal(f.Fd())
}

// Size returns the terminal dimensions of f, or the fallback values when f
// is not a terminal.
func Size(f *os.File, fallbackW, fallbackH int) (int, int) {
	w, h, err := xterm.GetSize(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return fallbackW, fallbackH
	}
	return w, h
}
