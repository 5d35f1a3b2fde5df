// Command liveplot-demo feeds a live plot session from a metric stream and
// shows the rendered chart in the terminal, either from JSON records on
// stdin/file or from a built-in training-loop simulation.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/keilerkonzept/liveplot"
	"github.com/keilerkonzept/liveplot/renderer/braille"
	"github.com/keilerkonzept/liveplot/renderer/linechart"
)

type Config struct {
	// session
	UpdatePeriod time.Duration
	Background   bool
	Renderer     string

	// layout
	Width        int
	Height       int
	Columns      int
	ShowAxis     bool
	LogScale     bool
	SeriesColors map[string]string

	// input
	InputPath  string
	JSON       bool
	MaxRecords int
	Pace       time.Duration

	// simulation (used when no input is given)
	Steps int
	Noise float64

	ConfigPath string
	AltScreen  bool
}

var config = Config{
	UpdatePeriod: 100 * time.Millisecond,
	Background:   true,
	Renderer:     "grid",

	Width:    80,
	Height:   20,
	Columns:  2,
	ShowAxis: false,
	LogScale: false,

	InputPath:  "",
	JSON:       false,
	MaxRecords: 0,
	Pace:       20 * time.Millisecond,

	Steps: 500,
	Noise: 0.05,

	ConfigPath: "",
	AltScreen:  true,
}

var (
	accentColor = styles.AdaptiveColor{Light: "1", Dark: "9"}
	borderColor = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	accentFg    = styles.NewStyle().Foreground(accentColor)
	borderFg    = styles.NewStyle().Foreground(borderColor)
)

func main() {
	log.SetOutput(os.Stdout)
	flag.DurationVar(&config.UpdatePeriod, "period", config.UpdatePeriod, "Minimum spacing between renders")
	flag.BoolVar(&config.Background, "background", config.Background, "Render from a background goroutine instead of inline on record")
	flag.StringVar(&config.Renderer, "renderer", config.Renderer, "Chart backend: grid (ntcharts) or braille (drawille)")
	flag.IntVar(&config.Width, "width", config.Width, "Frame width in cells (0 = terminal width)")
	flag.IntVar(&config.Height, "height", config.Height, "Frame height in cells")
	flag.IntVar(&config.Columns, "columns", config.Columns, "Subplot columns for the grid renderer")
	flag.BoolVar(&config.ShowAxis, "axis", config.ShowAxis, "Draw axes where the backend supports it")
	flag.BoolVar(&config.LogScale, "log-scale", config.LogScale, "Use a logarithmic Y axis scale (default: linear)")
	flag.StringVar(&config.InputPath, "in", config.InputPath, "Read input from this file instead of stdin")
	flag.BoolVar(&config.JSON, "json", config.JSON, "Read JSON metric records {\"loss\":0.3,...,[\"step\":n]} from input")
	flag.IntVar(&config.MaxRecords, "max-records", config.MaxRecords, "Stop after this many records (0 = unlimited)")
	flag.DurationVar(&config.Pace, "pace", config.Pace, "Sleep between records (e.g. 5ms, 50ms)")
	flag.IntVar(&config.Steps, "steps", config.Steps, "Simulated training steps when no input is given")
	flag.Float64Var(&config.Noise, "noise", config.Noise, "Simulated metric noise amplitude")
	flag.StringVar(&config.ConfigPath, "config", config.ConfigPath, "Optional YAML config file (flags win)")
	flag.BoolVar(&config.AltScreen, "alt-screen", config.AltScreen, "Use the terminal alternate screen buffer")
	flag.Parse()

	if config.ConfigPath != "" {
		fc, err := loadFileConfig(config.ConfigPath)
		if err != nil {
			log.Fatal(err)
		}
		fc.apply(&config)
		flag.Parse() // flags win over the file
	}
	if err := validateAndNormalizeConfig(); err != nil {
		log.Fatal(err)
	}

	var renderer liveplot.Renderer
	switch config.Renderer {
	case "grid":
		renderer = linechart.New()
	case "braille":
		renderer = braille.New()
	default:
		log.Fatalf("unknown renderer %q (want grid or braille)", config.Renderer)
	}

	var program *tui.Program
	surface := liveplot.SurfaceFunc(func(frame string) error {
		if program != nil {
			program.Send(frameMsg(frame))
		}
		return nil
	})

	session, err := liveplot.New(liveplot.Config{
		UpdatePeriod: config.UpdatePeriod,
		Background:   config.Background,
		Layout: liveplot.Layout{
			Width:        config.Width,
			Height:       config.Height,
			Columns:      config.Columns,
			ShowAxis:     config.ShowAxis,
			LogScale:     config.LogScale,
			SeriesColors: config.SeriesColors,
		},
	}, renderer, surface)
	if err != nil {
		log.Fatal(err)
	}

	m := newModel(session)
	opts := []tui.ProgramOption{tui.WithInputTTY()}
	if config.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	program = tui.NewProgram(m, opts...)
	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}

func validateAndNormalizeConfig() error {
	if config.UpdatePeriod < 0 {
		return fmt.Errorf("-period must be >= 0")
	}
	if config.Height < 4 {
		return fmt.Errorf("-height must be >= 4")
	}
	if config.Columns < 0 {
		return fmt.Errorf("-columns must be >= 0")
	}
	if config.MaxRecords < 0 {
		return fmt.Errorf("-max-records must be >= 0")
	}
	if config.Pace < 0 {
		return fmt.Errorf("-pace must be >= 0")
	}
	if config.Steps < 1 {
		return fmt.Errorf("-steps must be >= 1")
	}
	if config.Noise < 0 {
		return fmt.Errorf("-noise must be >= 0")
	}
	if config.Width == 0 && term.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			config.Width = w
		}
	}
	if config.Width < 16 {
		config.Width = 80
	}
	return nil
}

type model struct {
	session *liveplot.Session

	frame string
	err   error

	paused    bool
	pauseMu   sync.Mutex
	pauseCond *sync.Cond

	help help.Model
	mu   sync.Mutex
}

type frameMsg string

type statsTickMsg time.Time

type feedDoneMsg struct{ err error }

func newModel(session *liveplot.Session) *model {
	m := &model{
		session: session,
		help:    help.New(),
	}
	m.pauseCond = sync.NewCond(&m.pauseMu)
	return m
}

func (m *model) Init() tui.Cmd {
	return tui.Batch(m.feedCmd(), doStatsTick())
}

func doStatsTick() tui.Cmd {
	return tui.Every(time.Second, func(t time.Time) tui.Msg {
		return statsTickMsg(t)
	})
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.mu.Lock()
		m.frame = string(msg)
		m.mu.Unlock()
		return m, nil
	case statsTickMsg:
		return m, doStatsTick()
	case feedDoneMsg:
		if msg.err != nil {
			m.mu.Lock()
			m.err = msg.err
			m.mu.Unlock()
			return m, nil
		}
		// Input exhausted: flush the final frame and keep the view up.
		_ = m.session.ForceRender()
		return m, nil
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			_ = m.session.Close()
			return m, tui.Quit
		case key.Matches(msg, keys.Pause):
			m.togglePause()
			return m, nil
		case key.Matches(msg, keys.Flush):
			if err := m.session.ForceRender(); err != nil {
				m.mu.Lock()
				m.err = err
				m.mu.Unlock()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *model) togglePause() {
	m.pauseMu.Lock()
	m.paused = !m.paused
	m.pauseMu.Unlock()
	m.pauseCond.Broadcast()
}

func (m *model) isPaused() bool {
	m.pauseMu.Lock()
	defer m.pauseMu.Unlock()
	return m.paused
}

func (m *model) waitIfPaused() {
	m.pauseMu.Lock()
	for m.paused {
		m.pauseCond.Wait()
	}
	m.pauseMu.Unlock()
}

func (m *model) feedCmd() tui.Cmd {
	return func() tui.Msg {
		r, ok, err := openInput()
		if err != nil {
			return feedDoneMsg{err}
		}
		if !ok {
			return feedDoneMsg{m.simulate()}
		}
		defer func() { _ = r.Close() }()
		return feedDoneMsg{m.readRecords(r)}
	}
}

func openInput() (io.ReadCloser, bool, error) {
	if config.InputPath != "" {
		f, err := os.Open(config.InputPath)
		if err != nil {
			return nil, false, err
		}
		return f, true, nil
	}
	if !config.JSON || term.IsTerminal(os.Stdin.Fd()) {
		return nil, false, nil
	}
	return io.NopCloser(os.Stdin), true, nil
}

// readRecords decodes a stream of JSON objects mapping series names to
// numeric values. A "step" key overrides the step counter.
func (m *model) readRecords(r io.Reader) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	n := 0
	for {
		m.waitIfPaused()
		if config.MaxRecords > 0 && n >= config.MaxRecords {
			return nil
		}
		var record map[string]float64
		if err := dec.Decode(&record); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := m.session.Record(liveplot.Metrics(record)); err != nil {
			return err
		}
		n++
		if config.Pace > 0 {
			time.Sleep(config.Pace)
		}
	}
}

// simulate feeds a synthetic training run: decaying loss, rising accuracy.
func (m *model) simulate() error {
	for i := 0; i < config.Steps; i++ {
		m.waitIfPaused()
		if config.MaxRecords > 0 && i >= config.MaxRecords {
			return nil
		}
		progress := float64(i) / float64(config.Steps)
		loss := math.Exp(-3*progress) + config.Noise*rand.NormFloat64()
		acc := 1 - math.Exp(-4*progress) + config.Noise*rand.NormFloat64()
		err := m.session.Record(liveplot.Metrics{
			"loss":     math.Max(0, loss),
			"accuracy": math.Min(1, math.Max(0, acc)),
		})
		if err != nil {
			return err
		}
		if config.Pace > 0 {
			time.Sleep(config.Pace)
		}
	}
	return nil
}

func (m *model) View() string {
	m.mu.Lock()
	frame := m.frame
	err := m.err
	m.mu.Unlock()

	if frame == "" {
		frame = borderFg.Render("waiting for data...")
	}

	stats := m.session.Stats()
	title := "SESSION " + m.session.ID()
	if m.isPaused() {
		title += " (PAUSED)"
	}
	statsBlock := strings.Join([]string{
		title,
		fmt.Sprintf("records: %d", stats.Records),
		fmt.Sprintf("renders: %d (failed: %d)", stats.Renders, stats.RenderFailures),
		fmt.Sprintf("skipped: %d  coalesced: %d", stats.Skips, stats.Coalesced),
		fmt.Sprintf("render latency avg/max: %s/%s",
			formatMetricDuration(stats.RenderLatency.Avg),
			formatMetricDuration(stats.RenderLatency.Max)),
	}, "\n")

	view := styles.JoinVertical(styles.Left, frame, accentFg.Render(statsBlock), m.help.View(keys))
	if err != nil {
		return styles.JoinVertical(styles.Left, view, accentFg.Render("ERROR: "+err.Error()))
	}
	return view
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

type keyMap struct {
	Pause key.Binding
	Flush key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Flush}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Pause, k.Flush}}
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Flush: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "flush"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
