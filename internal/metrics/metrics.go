// Package metrics provides Prometheus instrumentation for the sampler.
//
// Metrics exposed:
//   - pingstrip_probes_total: Counter of applied probes by result (ok, failed)
//   - pingstrip_probe_drops_total: Counter of probe submissions skipped under backlog
//   - pingstrip_latency_milliseconds: Histogram of successful round-trip times
//   - pingstrip_last_latency_milliseconds: Gauge of the newest successful round trip
//   - pingstrip_probes_inflight: Gauge of probes currently executing
//   - pingstrip_probes_pending: Gauge of probe requests queued but not started
//   - pingstrip_cycle_seconds: Histogram of probe-to-render cycle duration
//   - pingstrip_next_delay_seconds: Gauge of the adaptive scheduler's next wait
//
// All metrics carry the target label. Every method is safe on a nil *Metrics,
// so callers that run without a registry pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// LatencyBuckets spans sub-millisecond LAN replies up to multi-second stalls.
var LatencyBuckets = []float64{1, 5, 10, 25, 50, 70, 100, 150, 250, 500, 800, 1500, 3000}

// Metrics holds all Prometheus metrics for one sampled target.
type Metrics struct {
	ProbesTotal  *prometheus.CounterVec
	DropsTotal   prometheus.Counter
	Latency      prometheus.Histogram
	LastLatency  prometheus.Gauge
	Inflight     prometheus.Gauge
	Pending      prometheus.Gauge
	CycleSeconds prometheus.Histogram
	NextDelay    prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// Pass prometheus.NewRegistry() for an isolated set.
func New(reg prometheus.Registerer, target string) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"target": target}

	return &Metrics{
		ProbesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "pingstrip_probes_total",
			Help:        "Total number of applied probes by result",
			ConstLabels: labels,
		}, []string{"result"}),

		DropsTotal: f.NewCounter(prometheus.CounterOpts{
			Name:        "pingstrip_probe_drops_total",
			Help:        "Probe submissions skipped because the queue was backed up",
			ConstLabels: labels,
		}),

		Latency: f.NewHistogram(prometheus.HistogramOpts{
			Name:        "pingstrip_latency_milliseconds",
			Help:        "Round-trip time of successful probes",
			ConstLabels: labels,
			Buckets:     LatencyBuckets,
		}),

		LastLatency: f.NewGauge(prometheus.GaugeOpts{
			Name:        "pingstrip_last_latency_milliseconds",
			Help:        "Round-trip time of the newest successful probe",
			ConstLabels: labels,
		}),

		Inflight: f.NewGauge(prometheus.GaugeOpts{
			Name:        "pingstrip_probes_inflight",
			Help:        "Probes currently executing",
			ConstLabels: labels,
		}),

		Pending: f.NewGauge(prometheus.GaugeOpts{
			Name:        "pingstrip_probes_pending",
			Help:        "Probe requests queued but not yet started",
			ConstLabels: labels,
		}),

		CycleSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:        "pingstrip_cycle_seconds",
			Help:        "Time from probe start to rendered frame",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),

		NextDelay: f.NewGauge(prometheus.GaugeOpts{
			Name:        "pingstrip_next_delay_seconds",
			Help:        "Wait before the next probe under adaptive scheduling",
			ConstLabels: labels,
		}),
	}
}

// RecordProbe counts m and, for a success, observes its latency.
func (m *Metrics) RecordProbe(meas probe.Measurement) {
	if m == nil {
		return
	}
	ms, ok := meas.Milliseconds()
	if !ok {
		m.ProbesTotal.WithLabelValues(ResultFailed).Inc()
		return
	}
	m.ProbesTotal.WithLabelValues(ResultOK).Inc()
	m.Latency.Observe(ms)
	m.LastLatency.Set(ms)
}

// RecordDrop counts one skipped submission.
func (m *Metrics) RecordDrop() {
	if m == nil {
		return
	}
	m.DropsTotal.Inc()
}

// SetInflight sets the number of executing probes.
func (m *Metrics) SetInflight(n int) {
	if m == nil {
		return
	}
	m.Inflight.Set(float64(n))
}

// SetPending sets the number of queued probe requests.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}

// RecordCycle records one probe-to-render cycle.
func (m *Metrics) RecordCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.CycleSeconds.Observe(d.Seconds())
}

// SetNextDelay records the adaptive scheduler's next wait.
func (m *Metrics) SetNextDelay(d time.Duration) {
	if m == nil {
		return
	}
	m.NextDelay.Set(d.Seconds())
}
