package sampler

import (
	"math"
	"testing"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_RejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1} {
		w, err := NewWindow(n)
		assert.Nil(t, w)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	}
}

func TestWindow_PreFilled(t *testing.T) {
	w, err := NewWindow(16)
	require.NoError(t, err)

	assert.Equal(t, 16, w.Len())
	snap := w.Snapshot()
	require.Len(t, snap, 16)
	for _, m := range snap {
		assert.Equal(t, probe.Latency(0), m)
	}
	assert.Equal(t, probe.Latency(0), w.Latest())
}

func TestWindow_AppendKeepsLengthAndOrder(t *testing.T) {
	w, err := NewWindow(4)
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		var m probe.Measurement
		if i%3 == 0 {
			m = probe.Failure()
		} else {
			m = probe.Latency(float64(i))
		}
		w.Append(m)

		snap := w.Snapshot()
		require.Len(t, snap, 4, "after %d appends", i)
		assert.Equal(t, m, snap[len(snap)-1])
		assert.Equal(t, m, w.Latest())
	}

	assert.Equal(t, []probe.Measurement{
		probe.Latency(7), probe.Latency(8), probe.Failure(), probe.Latency(10),
	}, w.Snapshot())
}

func TestWindow_SnapshotIsCopy(t *testing.T) {
	w, err := NewWindow(2)
	require.NoError(t, err)
	w.Append(probe.Latency(5))

	snap := w.Snapshot()
	snap[1] = probe.Failure()
	assert.Equal(t, probe.Latency(5), w.Latest())
}

func TestWindow_SizeOne(t *testing.T) {
	w, err := NewWindow(1)
	require.NoError(t, err)

	w.Append(probe.Latency(3))
	w.Append(probe.Failure())
	assert.Equal(t, []probe.Measurement{probe.Failure()}, w.Snapshot())
	assert.Equal(t, probe.Failure(), w.Latest())
}

func TestStats(t *testing.T) {
	var s Stats
	assert.Zero(t, s.LossPercent())
	assert.Zero(t, s.StdDev())

	s.Add(probe.Latency(10))
	assert.Zero(t, s.StdDev(), "one sample has no spread")

	s.Add(probe.Failure())
	s.Add(probe.Latency(20))
	s.Add(probe.Latency(30))

	assert.Equal(t, uint64(4), s.Sent)
	assert.Equal(t, uint64(1), s.Lost)
	assert.Equal(t, uint64(3), s.Received())
	assert.Equal(t, 25.0, s.LossPercent())
	assert.Equal(t, 10.0, s.Best)
	assert.Equal(t, 30.0, s.Worst)
	assert.InDelta(t, 20.0, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(200.0/3.0), s.StdDev(), 1e-9)
}

func TestStats_AllLost(t *testing.T) {
	var s Stats
	s.Add(probe.Failure())
	s.Add(probe.Failure())

	assert.Equal(t, 100.0, s.LossPercent())
	assert.Zero(t, s.Received())
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.Best)
}

func TestFrameStatus(t *testing.T) {
	var nilFrame *Frame
	assert.Equal(t, "Last ping: --", nilFrame.Status())
	assert.Equal(t, "Last ping: 12.345 ms", (&Frame{Latest: probe.Latency(12.345)}).Status())
	assert.Equal(t, "Last ping: 0.000 ms", (&Frame{Latest: probe.Latency(0)}).Status())
	assert.Equal(t, "Last ping: Failed", (&Frame{Latest: probe.Failure()}).Status())
}
