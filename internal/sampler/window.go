package sampler

import (
	"fmt"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Window is a fixed-size circular buffer of measurements, newest last.
// It always holds exactly Len() entries; it starts filled with Latency(0).
//
// Window is not safe for concurrent use. The Scheduler owns it and hands out
// Snapshots.
type Window struct {
	data []probe.Measurement
	head int // index of the oldest entry
}

// NewWindow creates a window of n measurements.
func NewWindow(n int) (*Window, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Sample count must be positive, got %d", n),
			"Set samples to the number of bars the strip should show, e.g. 16.")
	}
	data := make([]probe.Measurement, n)
	for i := range data {
		data[i] = probe.Latency(0)
	}
	return &Window{data: data}, nil
}

// Append pushes m as the newest entry and evicts the oldest.
func (w *Window) Append(m probe.Measurement) {
	w.data[w.head] = m
	w.head = (w.head + 1) % len(w.data)
}

// Latest returns the most recently appended entry.
func (w *Window) Latest() probe.Measurement {
	return w.data[(w.head-1+len(w.data))%len(w.data)]
}

// Len returns the window size.
func (w *Window) Len() int {
	return len(w.data)
}

// Snapshot returns a copy of the entries, oldest first.
func (w *Window) Snapshot() []probe.Measurement {
	out := make([]probe.Measurement, 0, len(w.data))
	out = append(out, w.data[w.head:]...)
	out = append(out, w.data[:w.head]...)
	return out
}
