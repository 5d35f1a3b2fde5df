package liveplot

import (
	"math"
	"sort"
	"sync"
	"time"
)

// StepKey is the reserved name inside a Metrics map that overrides the
// auto-incrementing step, mirroring an explicit RecordAt call.
const StepKey = "step"

// Metrics maps series names to the values recorded for one step.
type Metrics map[string]float64

// Point is a single (x, y) sample.
type Point struct {
	X float64
	Y float64
}

// SeriesData is a named, append-ordered sequence of points.
type SeriesData struct {
	Name   string
	Points []Point
}

// Snapshot is a deep copy of all series, taken at render time so a slow
// backend never observes a half-appended series.
type Snapshot struct {
	Series  []SeriesData
	TakenAt time.Time
}

// Samples returns the total number of points across all series.
func (s Snapshot) Samples() int {
	n := 0
	for _, sd := range s.Series {
		n += len(sd.Points)
	}
	return n
}

// Get returns the named series and whether it exists.
func (s Snapshot) Get(name string) (SeriesData, bool) {
	for _, sd := range s.Series {
		if sd.Name == name {
			return sd, true
		}
	}
	return SeriesData{}, false
}

// Store holds the append-only series data for one session. All series share
// one step counter: each Record call advances it by one unless an explicit
// step is supplied. Safe for one writer and one reader used concurrently.
type Store struct {
	mu      sync.Mutex
	order   []string
	series  map[string][]Point
	step    float64
	started bool
	samples uint64
}

func NewStore() *Store {
	return &Store{series: make(map[string][]Point)}
}

// Record appends one value per named series at the next auto step. A "step"
// key inside values overrides the step instead of creating a series. On a
// validation failure nothing is appended.
func (s *Store) Record(values Metrics) error {
	if x, ok := values[StepKey]; ok {
		rest := make(Metrics, len(values)-1)
		for k, v := range values {
			if k != StepKey {
				rest[k] = v
			}
		}
		return s.RecordAt(x, rest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.step + 1
	if !s.started {
		step = 0
	}
	return s.appendLocked(step, values)
}

// RecordAt appends one value per named series at the given step and makes it
// the new shared step position.
func (s *Store) RecordAt(step float64, values Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(step, values)
}

func (s *Store) appendLocked(step float64, values Metrics) error {
	// Validate everything before touching any series; a rejected batch must
	// not partially append.
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return &InvalidSampleError{Series: StepKey, Value: step, Reason: "step is not a finite number"}
	}
	for name, v := range values {
		if name == "" {
			return &InvalidSampleError{Value: v, Reason: "empty series name"}
		}
		if math.IsNaN(v) {
			return &InvalidSampleError{Series: name, Value: v, Reason: "value is NaN"}
		}
		if math.IsInf(v, 0) {
			return &InvalidSampleError{Series: name, Value: v, Reason: "value is infinite"}
		}
	}

	// Sorted so series creation order is deterministic for a multi-value call.
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := s.series[name]; !ok {
			s.order = append(s.order, name)
		}
		s.series[name] = append(s.series[name], Point{X: step, Y: values[name]})
		s.samples++
	}
	s.step = step
	s.started = true
	return nil
}

// Snapshot returns a deep copy of all series in creation order.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Series:  make([]SeriesData, 0, len(s.order)),
		TakenAt: time.Now(),
	}
	for _, name := range s.order {
		src := s.series[name]
		points := make([]Point, len(src))
		copy(points, src)
		snap.Series = append(snap.Series, SeriesData{Name: name, Points: points})
	}
	return snap
}

// SampleCount returns the total number of appended points.
func (s *Store) SampleCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples
}

// Step returns the current shared step position.
func (s *Store) Step() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return -1
	}
	return s.step
}
