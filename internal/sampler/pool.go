package sampler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// ProbeFunc runs one probe.
type ProbeFunc func(ctx context.Context) probe.Measurement

// Result is a completed probe as delivered by a Pool.
type Result struct {
	Seq         uint64
	Measurement probe.Measurement
	Started     time.Time
	Finished    time.Time
}

type request struct {
	seq uint64
}

// Pool runs probes on a fixed set of workers fed by a short queue.
// Submissions that find the queue full are dropped, so a backlog of hung
// probes never grows past the queue capacity.
type Pool struct {
	run     ProbeFunc
	workers int
	queue   chan request
	results chan Result

	nextSeq atomic.Uint64
	active  atomic.Int32
	peak    atomic.Int32
	dropped atomic.Uint64

	wg sync.WaitGroup
}

// NewPool creates a pool of workers that accepts at most maxPending queued
// requests. Call Start to launch the workers.
func NewPool(run ProbeFunc, workers, maxPending int) *Pool {
	return &Pool{
		run:     run,
		workers: workers,
		queue:   make(chan request, maxPending),
		results: make(chan Result, workers),
	}
}

// Start launches the workers. They stop once ctx is cancelled and their
// current probe, if any, returns.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.worker(ctx)
		}()
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Results delivers completed probes in completion order.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Submit queues a probe request. It reports false, and counts a drop, when
// the queue is already full.
func (p *Pool) Submit() bool {
	req := request{seq: p.nextSeq.Add(1)}
	select {
	case p.queue <- req:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// Pending is the number of queued requests no worker has picked up yet.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Active is the number of probes executing right now.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Peak is the highest Active value observed.
func (p *Pool) Peak() int {
	return int(p.peak.Load())
}

// Dropped is the number of rejected submissions.
func (p *Pool) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.queue:
			res := p.execute(ctx, req)
			select {
			case p.results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *Pool) execute(ctx context.Context, req request) Result {
	n := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	started := time.Now()
	m := p.run(ctx)
	return Result{
		Seq:         req.seq,
		Measurement: m,
		Started:     started,
		Finished:    time.Now(),
	}
}
