package term

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplay(t *testing.T) {
	t.Run("first frame is written as-is", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(&buf)
		if err := s.Display("line1\nline2"); err != nil {
			t.Fatalf("display: %v", err)
		}
		if got := buf.String(); got != "line1\nline2\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("subsequent frames replace the previous one", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(&buf)
		s.Display("a\nb\nc")
		buf.Reset()

		if err := s.Display("x"); err != nil {
			t.Fatalf("display: %v", err)
		}
		got := buf.String()
		if !strings.HasPrefix(got, "\x1b[3A\x1b[J") {
			t.Errorf("second frame must rewind 3 lines and clear, got %q", got)
		}
		if !strings.HasSuffix(got, "x\n") {
			t.Errorf("second frame content missing, got %q", got)
		}
	})

	t.Run("trailing newline is not doubled", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(&buf)
		s.Display("one\n")
		if got := buf.String(); got != "one\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}
