package liveplot

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestStoreRecord(t *testing.T) {
	t.Run("auto step shared across series", func(t *testing.T) {
		store := NewStore()
		if err := store.Record(Metrics{"loss": 0.5, "accuracy": 0.1}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		if err := store.Record(Metrics{"loss": 0.4, "accuracy": 0.2}); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		snap := store.Snapshot()
		for _, name := range []string{"loss", "accuracy"} {
			sd, ok := snap.Get(name)
			if !ok {
				t.Fatalf("series %q missing", name)
			}
			if len(sd.Points) != 2 {
				t.Fatalf("series %q: want 2 points, got %d", name, len(sd.Points))
			}
			if sd.Points[0].X != 0 || sd.Points[1].X != 1 {
				t.Errorf("series %q: want steps 0,1, got %v,%v", name, sd.Points[0].X, sd.Points[1].X)
			}
		}
	})

	t.Run("explicit step via RecordAt moves the shared counter", func(t *testing.T) {
		store := NewStore()
		store.Record(Metrics{"loss": 1})
		if err := store.RecordAt(10, Metrics{"loss": 0.5}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		store.Record(Metrics{"loss": 0.25})

		sd, _ := store.Snapshot().Get("loss")
		wantX := []float64{0, 10, 11}
		for i, x := range wantX {
			if sd.Points[i].X != x {
				t.Errorf("point %d: want x=%v, got %v", i, x, sd.Points[i].X)
			}
		}
	})

	t.Run("step key overrides the step", func(t *testing.T) {
		store := NewStore()
		if err := store.Record(Metrics{"loss": 0.5, "step": 42}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		snap := store.Snapshot()
		if _, ok := snap.Get("step"); ok {
			t.Error("step key must not create a series")
		}
		sd, _ := snap.Get("loss")
		if sd.Points[0].X != 42 {
			t.Errorf("want x=42, got %v", sd.Points[0].X)
		}
	})

	t.Run("series creation order is deterministic", func(t *testing.T) {
		store := NewStore()
		store.Record(Metrics{"b": 1, "a": 2, "c": 3})
		snap := store.Snapshot()
		want := []string{"a", "b", "c"}
		for i, sd := range snap.Series {
			if sd.Name != want[i] {
				t.Errorf("series %d: want %q, got %q", i, want[i], sd.Name)
			}
		}
	})
}

func TestStoreInvalidSamples(t *testing.T) {
	cases := []struct {
		name   string
		values Metrics
	}{
		{"NaN value", Metrics{"loss": math.NaN()}},
		{"positive infinity", Metrics{"loss": math.Inf(1)}},
		{"negative infinity", Metrics{"loss": math.Inf(-1)}},
		{"empty series name", Metrics{"": 1}},
		{"NaN step", Metrics{"loss": 1, "step": math.NaN()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			store.Record(Metrics{"loss": 0.5})
			before := store.SampleCount()

			err := store.Record(tc.values)
			var invalid *InvalidSampleError
			if !errors.As(err, &invalid) {
				t.Fatalf("want InvalidSampleError, got %v", err)
			}
			if store.SampleCount() != before {
				t.Error("rejected batch must not append")
			}
		})
	}

	t.Run("no partial append for mixed batch", func(t *testing.T) {
		store := NewStore()
		err := store.Record(Metrics{"good": 1, "bad": math.NaN()})
		if err == nil {
			t.Fatal("want error")
		}
		if store.SampleCount() != 0 {
			t.Error("valid entries of a rejected batch must not append")
		}
	})
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.Record(Metrics{"loss": 1})
	snap := store.Snapshot()

	store.Record(Metrics{"loss": 2})
	sd, _ := snap.Get("loss")
	if len(sd.Points) != 1 {
		t.Errorf("snapshot changed after append: %d points", len(sd.Points))
	}

	sd.Points[0].Y = 99
	fresh, _ := store.Snapshot().Get("loss")
	if fresh.Points[0].Y != 1 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStoreConcurrentAppendAndSnapshot(t *testing.T) {
	store := NewStore()
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := store.Record(Metrics{"loss": float64(i)}); err != nil {
				t.Errorf("record failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			snap := store.Snapshot()
			if sd, ok := snap.Get("loss"); ok {
				for j, p := range sd.Points {
					if p.X != float64(j) {
						t.Errorf("torn snapshot: point %d has x=%v", j, p.X)
						return
					}
				}
			}
		}
	}()
	wg.Wait()

	if got := store.SampleCount(); got != n {
		t.Errorf("want %d samples, got %d", n, got)
	}
}
