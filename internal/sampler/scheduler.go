// Package sampler drives the probe cadence and owns the sample window and
// strip renderer.
//
// A Scheduler probes one target on a fixed nominal interval using one of
// two strategies:
//
//	pool      A bounded worker pool fed by a ticker. When the queue of
//	          not-yet-started probes is full, the tick's submission is
//	          dropped, so hung probes cannot pile up.
//	adaptive  One probe at a time. After each probe the next wait is
//	          max(minInterval, interval - elapsed), which keeps the
//	          average period near the interval when probes are slow.
//
// Either way, completed probes are applied on the Run goroutine alone:
// append to the window, render the strip, update stats and publish an
// immutable Frame. Hosts read Frames; they never touch scheduler state.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/metrics"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Strategy selects how probes are scheduled.
type Strategy string

const (
	StrategyPool     Strategy = "pool"
	StrategyAdaptive Strategy = "adaptive"
)

// Scheduling defaults.
const (
	DefaultInterval    = time.Second
	DefaultMinInterval = 100 * time.Millisecond
	DefaultWorkers     = 2
	DefaultMaxPending  = 3
)

// ParseStrategy maps a configuration string to a Strategy. Empty means pool.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyPool:
		return StrategyPool, nil
	case StrategyAdaptive:
		return StrategyAdaptive, nil
	default:
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown scheduling strategy %q", s),
			`Use "pool" or "adaptive".`)
	}
}

// Prober is the probing contract the scheduler depends on.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) probe.Measurement
}

// Options configures a Scheduler. Zero values take the defaults above;
// a zero Timeout becomes Interval * Workers.
type Options struct {
	Target      string
	Interval    time.Duration
	MinInterval time.Duration
	Timeout     time.Duration
	Workers     int
	MaxPending  int
	Strategy    Strategy
}

func (o Options) withDefaults() Options {
	if o.Interval == 0 {
		o.Interval = DefaultInterval
	}
	if o.MinInterval == 0 {
		o.MinInterval = DefaultMinInterval
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxPending == 0 {
		o.MaxPending = DefaultMaxPending
	}
	if o.Strategy == "" {
		o.Strategy = StrategyPool
	}
	if o.Timeout == 0 {
		o.Timeout = o.Interval * time.Duration(o.Workers)
	}
	return o
}

func (o Options) validate() error {
	switch {
	case o.Target == "":
		return errors.New(errors.ErrConfig, "No probe target configured",
			"Set target to a hostname or IP address, e.g. 1.1.1.1.")
	case o.Interval < 0 || o.MinInterval < 0 || o.Timeout < 0:
		return errors.New(errors.ErrConfig, "Durations must not be negative", "")
	case o.MinInterval > o.Interval:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Minimum interval %s exceeds the interval %s", o.MinInterval, o.Interval),
			"Lower min_interval or raise interval.")
	case o.Workers < 2:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Need at least 2 workers, got %d", o.Workers),
			"A single worker lets one hung probe stall every result behind it.")
	case o.MaxPending < 1:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_pending must be at least 1, got %d", o.MaxPending), "")
	}
	_, err := ParseStrategy(string(o.Strategy))
	return err
}

// Option configures optional Scheduler collaborators.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// WithMetrics sets the Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// Scheduler runs the probe loop for one target.
type Scheduler struct {
	opts     Options
	prober   Prober
	renderer *graph.Renderer
	log      logger.Logger
	metrics  *metrics.Metrics

	// Owned by the Run goroutine.
	window    *Window
	stats     Stats
	seq       uint64
	failStart uint64 // Sent count when the current failure streak began; 0 when healthy

	pool      *Pool
	running   atomic.Bool
	frame     atomic.Pointer[Frame]
	nextDelay atomic.Int64

	subMu sync.Mutex
	subs  map[chan *Frame]struct{}
}

// New creates a scheduler. The window size matches the renderer's sample
// count.
func New(opts Options, prober Prober, renderer *graph.Renderer, options ...Option) (*Scheduler, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if prober == nil || renderer == nil {
		return nil, errors.New(errors.ErrConfig, "Scheduler needs a prober and a renderer", "")
	}

	window, err := NewWindow(renderer.Samples())
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		opts:     opts,
		prober:   prober,
		renderer: renderer,
		log:      logger.Noop(),
		window:   window,
		subs:     make(map[chan *Frame]struct{}),
	}
	for _, opt := range options {
		opt(s)
	}

	if opts.Strategy == StrategyPool {
		s.pool = NewPool(s.probe, opts.Workers, opts.MaxPending)
	}
	return s, nil
}

// Options returns the effective options, defaults applied.
func (s *Scheduler) Options() Options {
	return s.opts
}

// Run probes until ctx is cancelled, then returns nil. The first probe fires
// immediately. Run may only be called once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrProbe, "Scheduler is already running", "")
	}

	s.log.Info("sampling %s every %s (%s strategy, timeout %s)",
		s.opts.Target, s.opts.Interval, s.opts.Strategy, s.opts.Timeout)

	var err error
	if s.opts.Strategy == StrategyAdaptive {
		err = s.runAdaptive(ctx)
	} else {
		err = s.runPool(ctx)
	}

	s.closeSubscribers()
	return err
}

func (s *Scheduler) runPool(ctx context.Context) error {
	s.pool.Start(ctx)
	defer s.pool.Wait()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.submit()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.submit()
		case res := <-s.pool.Results():
			if ctx.Err() != nil {
				return nil
			}
			s.metrics.SetInflight(s.pool.Active())
			s.apply(res.Measurement)
			s.metrics.RecordCycle(time.Since(res.Started))
		}
	}
}

func (s *Scheduler) submit() {
	if !s.pool.Submit() {
		s.metrics.RecordDrop()
		s.log.Debug("probe queue full (%d pending), skipping tick", s.pool.Pending())
	}
	s.metrics.SetPending(s.pool.Pending())
	s.metrics.SetInflight(s.pool.Active())
}

func (s *Scheduler) runAdaptive(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		start := time.Now()
		s.metrics.SetInflight(1)
		m := s.probe(ctx)
		s.metrics.SetInflight(0)
		if ctx.Err() != nil {
			return nil
		}
		s.apply(m)

		elapsed := time.Since(start)
		delay := NextDelay(s.opts.Interval, s.opts.MinInterval, elapsed)
		s.nextDelay.Store(int64(delay))
		s.metrics.RecordCycle(elapsed)
		s.metrics.SetNextDelay(delay)
		timer.Reset(delay)
	}
}

// NextDelay returns the wait before the next adaptive probe: what is left of
// the nominal interval after elapsed, but never less than minInterval.
func NextDelay(nominal, minInterval, elapsed time.Duration) time.Duration {
	return max(minInterval, nominal-elapsed)
}

func (s *Scheduler) probe(ctx context.Context) probe.Measurement {
	return s.prober.Probe(ctx, s.opts.Target, s.opts.Timeout)
}

// apply is the only path that mutates the window, the renderer and stats.
func (s *Scheduler) apply(m probe.Measurement) *Frame {
	s.window.Append(m)
	s.renderer.Render(m)
	s.stats.Add(m)
	s.seq++
	s.metrics.RecordProbe(m)
	s.noteHealth(m)

	f := &Frame{
		Seq:     s.seq,
		Target:  s.opts.Target,
		Latest:  m,
		Samples: s.window.Snapshot(),
		Image:   s.renderer.Snapshot(),
		Stats:   s.stats,
		Dropped: s.Dropped(),
		At:      time.Now(),
	}
	s.frame.Store(f)
	s.publish(f)
	return f
}

// noteHealth logs the edges of failure streaks, not every failed probe.
func (s *Scheduler) noteHealth(m probe.Measurement) {
	switch {
	case m.Failed() && s.failStart == 0:
		s.failStart = s.stats.Sent
		s.log.Warn("probes to %s are failing", s.opts.Target)
	case !m.Failed() && s.failStart != 0:
		s.log.Info("probes to %s recovered after %d failures (%s)",
			s.opts.Target, s.stats.Sent-s.failStart, m)
		s.failStart = 0
	}
}

// Frame returns the most recently published frame, or nil before the first
// probe completes.
func (s *Scheduler) Frame() *Frame {
	return s.frame.Load()
}

// Dropped is the number of probe submissions skipped under backlog. It is
// always zero for the adaptive strategy.
func (s *Scheduler) Dropped() uint64 {
	if s.pool == nil {
		return 0
	}
	return s.pool.Dropped()
}

// NextDelay is the adaptive strategy's most recent computed wait.
func (s *Scheduler) NextDelay() time.Duration {
	return time.Duration(s.nextDelay.Load())
}

// Subscribe returns a channel that receives every published frame, newest
// wins: a slow reader sees the latest frame, never a backlog. The channel is
// closed when Run returns or cancel is called.
func (s *Scheduler) Subscribe() (<-chan *Frame, func()) {
	ch := make(chan *Frame, 1)

	s.subMu.Lock()
	if s.subs == nil {
		close(ch)
		s.subMu.Unlock()
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (s *Scheduler) publish(f *Frame) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		// Replace the unread frame with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *Scheduler) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}
