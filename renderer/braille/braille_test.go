package braille

import (
	"strings"
	"testing"

	"github.com/keilerkonzept/liveplot"
)

func testSnapshot() liveplot.Snapshot {
	return liveplot.Snapshot{
		Series: []liveplot.SeriesData{
			{Name: "loss", Points: []liveplot.Point{{X: 0, Y: 1}, {X: 1, Y: 0.5}, {X: 2, Y: 0.25}}},
			{Name: "accuracy", Points: []liveplot.Point{{X: 0, Y: 0.1}, {X: 1, Y: 0.6}, {X: 2, Y: 0.9}}},
		},
	}
}

func TestDraw(t *testing.T) {
	r := New()

	t.Run("renders a frame with a legend", func(t *testing.T) {
		frame, err := r.Draw(testSnapshot(), liveplot.Layout{Width: 40, Height: 10})
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if frame == "" {
			t.Fatal("empty frame")
		}
		for _, name := range []string{"loss", "accuracy"} {
			if !strings.Contains(frame, name) {
				t.Errorf("legend missing series %q", name)
			}
		}
	})

	t.Run("empty snapshot yields a blank frame of the right height", func(t *testing.T) {
		frame, err := r.Draw(liveplot.Snapshot{}, liveplot.Layout{Width: 10, Height: 4})
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if got := strings.Count(frame, "\n"); got != 4 {
			t.Errorf("want 4 lines, got %d", got)
		}
		if strings.TrimSpace(frame) != "" {
			t.Error("blank frame must contain only spaces")
		}
	})

	t.Run("log scale draws without error", func(t *testing.T) {
		if _, err := r.Draw(testSnapshot(), liveplot.Layout{Width: 40, Height: 10, LogScale: true}); err != nil {
			t.Fatalf("draw: %v", err)
		}
	})

	t.Run("zero layout falls back to defaults", func(t *testing.T) {
		frame, err := r.Draw(testSnapshot(), liveplot.Layout{})
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if frame == "" {
			t.Fatal("empty frame")
		}
	})
}
