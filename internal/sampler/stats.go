package sampler

import (
	"math"

	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Stats summarizes every probe applied since the scheduler started.
// Latency figures cover successful probes only and are in milliseconds.
type Stats struct {
	Sent  uint64
	Lost  uint64
	Best  float64
	Worst float64
	Mean  float64

	// m2 is the running sum of squared deviations (Welford).
	m2 float64
}

// Add folds one measurement into the summary.
func (s *Stats) Add(m probe.Measurement) {
	s.Sent++
	ms, ok := m.Milliseconds()
	if !ok {
		s.Lost++
		return
	}

	n := float64(s.Received())
	if n == 1 {
		s.Best, s.Worst = ms, ms
	} else {
		s.Best = math.Min(s.Best, ms)
		s.Worst = math.Max(s.Worst, ms)
	}

	delta := ms - s.Mean
	s.Mean += delta / n
	s.m2 += delta * (ms - s.Mean)
}

// Received is the number of probes that returned a latency.
func (s Stats) Received() uint64 {
	return s.Sent - s.Lost
}

// StdDev is the population standard deviation of successful latencies.
func (s Stats) StdDev() float64 {
	n := s.Received()
	if n < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(n))
}

// LossPercent is the share of probes that failed, 0 to 100.
func (s Stats) LossPercent() float64 {
	if s.Sent == 0 {
		return 0
	}
	return float64(s.Lost) / float64(s.Sent) * 100
}
