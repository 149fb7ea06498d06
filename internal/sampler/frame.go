package sampler

import (
	"image"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// StatusPending is the status line shown before the first probe completes.
const StatusPending = "Last ping: --"

// Frame is an immutable view of the scheduler after one applied probe.
// Frames are shared between goroutines; nothing in them is mutated after
// publication.
type Frame struct {
	Seq     uint64
	Target  string
	Latest  probe.Measurement
	Samples []probe.Measurement // oldest first
	Image   *image.RGBA
	Stats   Stats
	Dropped uint64
	At      time.Time
}

// Status returns the one-line summary of the newest sample, e.g.
// "Last ping: 14.200 ms" or "Last ping: Failed". A nil frame reports that
// no probe has completed yet.
func (f *Frame) Status() string {
	if f == nil {
		return StatusPending
	}
	return "Last ping: " + f.Latest.String()
}
