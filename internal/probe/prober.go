// Package probe measures round-trip latency to a target by running an
// external ping-style command and parsing its textual report.
//
// A Prober never returns an error: every way a probe can go wrong (the
// command exits non-zero, runs past its timeout, prints something without a
// latency in it, or the executor panics) resolves to a Failure measurement.
package probe

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/logger"
)

// latencyPattern matches the per-reply report line of ping, e.g. "time=14.2 ms".
var latencyPattern = regexp.MustCompile(`time=(\d+\.?\d*)\s*ms`)

// Executor runs one latency check against target. ok reports a zero exit
// status; output is the raw text the check printed. wait is how long the
// check itself should wait for a reply.
type Executor interface {
	Run(ctx context.Context, target string, wait time.Duration) (ok bool, output string, err error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, target string, wait time.Duration) (bool, string, error)

// Run calls f.
func (f ExecutorFunc) Run(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
	return f(ctx, target, wait)
}

// Prober turns executor runs into Measurements.
type Prober struct {
	exec Executor
	wait time.Duration
	log  logger.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithLogger sets the logger used for debug output about failed probes.
func WithLogger(l logger.Logger) Option {
	return func(p *Prober) {
		p.log = l
	}
}

// WithWait sets the reply wait handed to the executor. Zero means "use the
// probe timeout".
func WithWait(wait time.Duration) Option {
	return func(p *Prober) {
		p.wait = wait
	}
}

// New creates a Prober backed by exec.
func New(exec Executor, opts ...Option) *Prober {
	p := &Prober{
		exec: exec,
		log:  logger.Noop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe runs one latency check against target, bounded by timeout.
// When the timeout fires first the executor call is abandoned and Failure is
// returned; the executor sees the cancelled context and is expected to clean
// up on its own.
func (p *Prober) Probe(ctx context.Context, target string, timeout time.Duration) Measurement {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	wait := p.wait
	if wait <= 0 || (timeout > 0 && wait > timeout) {
		wait = timeout
	}

	type outcome struct {
		ok     bool
		output string
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("executor panicked: %v", r)}
			}
		}()
		ok, out, err := p.exec.Run(ctx, target, wait)
		done <- outcome{ok: ok, output: out, err: err}
	}()

	select {
	case <-ctx.Done():
		p.log.Debug("probe of %s abandoned: %v", target, ctx.Err())
		return Failure()
	case o := <-done:
		if o.err != nil {
			p.log.Debug("probe of %s failed: %v", target, o.err)
			return Failure()
		}
		if !o.ok {
			p.log.Debug("probe of %s reported no reply", target)
			return Failure()
		}
		return ParseOutput(o.output)
	}
}

// ParseOutput extracts the first "time=<n> ms" latency from ping output.
// Output without a latency report is a Failure.
func ParseOutput(output string) Measurement {
	match := latencyPattern.FindStringSubmatch(output)
	if match == nil {
		return Failure()
	}
	ms, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return Failure()
	}
	return Latency(ms)
}
