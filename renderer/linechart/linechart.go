// Package linechart renders each series of a snapshot as its own ntcharts
// time-series line chart, arranged in a lipgloss grid per the layout's
// Columns setting. The step value of each point is used as the x coordinate.
package linechart

import (
	"fmt"
	"math"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/liveplot"
)

var (
	borderColor = lipgloss.AdaptiveColor{Light: "#555", Dark: "#555"}
	axisStyle   = lipgloss.NewStyle().Foreground(borderColor)
	labelStyle  = lipgloss.NewStyle().Foreground(borderColor)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(borderColor)

	palette = []lipgloss.Color{"9", "10", "12", "11", "13", "14"}
)

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) Draw(snap liveplot.Snapshot, layout liveplot.Layout) (string, error) {
	if len(snap.Series) == 0 {
		return "", nil
	}

	w, h := layout.Width, layout.Height
	if w <= 0 {
		w = liveplot.DefaultWidth
	}
	if h <= 0 {
		h = liveplot.DefaultHeight
	}
	cols := layout.Columns
	if cols <= 0 {
		cols = 1
		if len(snap.Series) > 1 {
			cols = 2
		}
	}
	if cols > len(snap.Series) {
		cols = len(snap.Series)
	}
	rows := (len(snap.Series) + cols - 1) / cols

	// Border eats 2 columns, border + title eat 3 lines.
	cellW := max(w/cols-2, 8)
	cellH := max(h/rows-3, 4)

	cells := make([]string, 0, len(snap.Series))
	for i, s := range snap.Series {
		view, err := r.drawSeries(s, cellW, cellH, i, layout)
		if err != nil {
			return "", fmt.Errorf("series %q: %w", s.Name, err)
		}
		cell := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(s.Name), view)
		cells = append(cells, cellStyle.Render(cell))
	}

	rowViews := make([]string, 0, rows)
	for i := 0; i < len(cells); i += cols {
		end := min(i+cols, len(cells))
		rowViews = append(rowViews, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rowViews...), nil
}

func (r *Renderer) drawSeries(s liveplot.SeriesData, w, h, idx int, layout liveplot.Layout) (string, error) {
	if len(s.Points) == 0 {
		return "", nil
	}

	minX, maxX := s.Points[0].X, s.Points[0].X
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range s.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		y := yValue(p.Y, layout)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	minY, maxY = padRange(minY, maxY)
	if maxX <= minX {
		maxX = minX + 1
	}

	graphStyle := lipgloss.NewStyle().Foreground(colorFor(s.Name, idx, layout))
	chart := tslc.New(w, h,
		tslc.WithYRange(minY, maxY),
		tslc.WithAxesStyles(axisStyle, labelStyle),
		tslc.WithStyle(graphStyle),
		tslc.WithXLabelFormatter(stepLabelFormatter),
		tslc.WithXYSteps(2, 3),
	)
	for _, p := range s.Points {
		chart.Push(tslc.TimePoint{Time: stepTime(p.X), Value: yValue(p.Y, layout)})
	}
	chart.SetTimeRange(stepTime(minX), stepTime(maxX))
	chart.SetViewTimeRange(stepTime(minX), stepTime(maxX))
	chart.DrawBraille()
	return chart.View(), nil
}

// Steps ride through ntcharts as unix seconds; the label formatter turns
// them back into plain step numbers.
func stepTime(step float64) time.Time { return time.Unix(int64(step), 0) }

func stepLabelFormatter(_ int, v float64) string {
	return fmt.Sprintf("%d", int64(v))
}

func yValue(y float64, layout liveplot.Layout) float64 {
	if layout.LogScale {
		return math.Log(math.Max(1, y))
	}
	return y
}

// padRange widens the y range by 10% so lines don't hug the frame, keeping
// zero as the floor for non-negative data.
func padRange(minY, maxY float64) (float64, float64) {
	spread := maxY - minY
	if spread == 0 {
		spread = math.Abs(maxY) * 0.1
		if spread == 0 {
			spread = 1
		}
	}
	padding := spread * 0.1
	lo, hi := minY-padding, maxY+padding
	if minY >= 0 && lo < 0 {
		lo = 0
	}
	return lo, hi
}

func colorFor(name string, i int, layout liveplot.Layout) lipgloss.Color {
	if c, ok := layout.SeriesColors[name]; ok {
		return lipgloss.Color(c)
	}
	return palette[i%len(palette)]
}
