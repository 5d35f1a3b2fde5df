// Package braille renders all series of a snapshot onto a single drawille
// braille canvas. Points are plotted in append order; x spacing is uniform.
package braille

import (
	"math"
	"strings"

	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/liveplot"
)

var palette = []plot.Color{plot.Red, plot.LightGray, plot.DimGray, plot.Black}

var namedColors = map[string]plot.Color{
	"red":       plot.Red,
	"black":     plot.Black,
	"gray":      plot.DimGray,
	"grey":      plot.DimGray,
	"lightgray": plot.LightGray,
}

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) Draw(snap liveplot.Snapshot, layout liveplot.Layout) (string, error) {
	w, h := layout.Width, layout.Height
	if w <= 0 {
		w = liveplot.DefaultWidth
	}
	if h <= 0 {
		h = liveplot.DefaultHeight
	}

	maxLen := 0
	for _, s := range snap.Series {
		if len(s.Points) > maxLen {
			maxLen = len(s.Points)
		}
	}
	if maxLen == 0 {
		return emptyFrame(w, h), nil
	}

	canvas := plot.NewCanvas(w, h)
	canvas.ShowAxis = layout.ShowAxis
	canvas.NumDataPoints = maxLen
	canvas.LineColors = make([]plot.Color, len(snap.Series))

	data := make([][]float64, len(snap.Series))
	names := make([]string, len(snap.Series))
	for i, s := range snap.Series {
		row := make([]float64, len(s.Points))
		for j, p := range s.Points {
			v := p.Y
			if layout.LogScale {
				v = math.Log(math.Max(1, v))
			}
			row[j] = v
		}
		data[i] = row
		names[i] = s.Name
		canvas.LineColors[i] = colorFor(s.Name, i, layout)
	}
	canvas.Fill(data)

	return canvas.String() + strings.Join(names, "  "), nil
}

func colorFor(name string, i int, layout liveplot.Layout) plot.Color {
	if c, ok := namedColors[strings.ToLower(layout.SeriesColors[name])]; ok {
		return c
	}
	return palette[i%len(palette)]
}

func emptyFrame(w, h int) string {
	var sb strings.Builder
	sb.Grow((w + 1) * h)
	line := strings.Repeat(" ", w)
	for i := 0; i < h; i++ {
		sb.WriteString(line)
		sb.WriteRune('\n')
	}
	return sb.String()
}
