package probe

import (
	"fmt"
	"math"
)

// Measurement is the outcome of one probe: either a latency in milliseconds
// or a failure. The zero value is Latency(0), the neutral pre-fill reading.
type Measurement struct {
	ms     float64
	failed bool
}

// Latency returns a successful measurement. Negative, NaN and infinite
// values cannot be a real round trip and become Failure.
func Latency(ms float64) Measurement {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Failure()
	}
	return Measurement{ms: ms}
}

// Failure returns a failed measurement.
func Failure() Measurement {
	return Measurement{failed: true}
}

// Failed reports whether the probe failed.
func (m Measurement) Failed() bool {
	return m.failed
}

// Milliseconds returns the latency and true, or 0 and false for a failure.
func (m Measurement) Milliseconds() (float64, bool) {
	if m.failed {
		return 0, false
	}
	return m.ms, true
}

// String formats the measurement the way the status line shows it.
func (m Measurement) String() string {
	if m.failed {
		return "Failed"
	}
	return fmt.Sprintf("%.3f ms", m.ms)
}
