// Package liveplot renders live-updating charts for long-running loops
// (training loops, ingest loops, benchmarks) without flooding the output
// with redraws.
//
// A Session buffers named (step, value) samples and redraws at most once per
// update period. Requests arriving while a render is in flight collapse into
// a single pending follow-up, so a fast producer can never build a render
// backlog. Closing a session always forces one final render, so the latest
// data is never lost to the throttle.
//
// Rendering is delegated to two narrow collaborators: a Renderer turns a
// Snapshot into a frame, and a Surface places the frame on the output with
// replace semantics. Backends for drawille braille canvases and ntcharts
// line-chart grids live under renderer/; a plain terminal surface lives
// under surface/term.
//
// Synchronous mode renders inline on Record:
//
//	s, _ := liveplot.New(liveplot.Config{}, braille.New(), term.New(os.Stdout))
//	defer s.Close()
//	for i := 0; i < steps; i++ {
//	    s.Record(liveplot.Metrics{"loss": loss, "accuracy": acc})
//	}
//
// Background mode renders from its own goroutine and Record returns
// immediately:
//
//	s, _ := liveplot.New(liveplot.Config{Background: true}, braille.New(), term.New(os.Stdout))
//	defer s.Close() // joins the loop, then flushes
package liveplot
