package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/metrics"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// session is one configured sampler with everything it needs wired in.
type session struct {
	cfg       *config.Config
	tiers     *graph.TierTable
	prober    *probe.Prober
	scheduler *sampler.Scheduler
	registry  *prometheus.Registry

	closeExec func() error
}

// newSession wires a scheduler from cfg. A nil exec picks the executor from
// the config: SSH when ssh.host is set, local ping otherwise.
func newSession(cfg *config.Config, log logger.Logger, exec probe.Executor) (*session, error) {
	tiers, err := cfg.TierTable()
	if err != nil {
		return nil, err
	}

	renderer, err := graph.NewRenderer(tiers, cfg.Samples, cfg.Bar.Width, cfg.Bar.Height)
	if err != nil {
		return nil, err
	}

	closeExec := func() error { return nil }
	if exec == nil {
		if cfg.SSH.Host != "" {
			ssh := probe.NewSSHExecutor(cfg.SSH.Host, cfg.SSH.DialTimeout)
			exec = ssh
			closeExec = ssh.Close
			log.Debug("probing %s from %s", cfg.Target, cfg.SSH.Host)
		} else {
			exec = probe.LocalExecutor{}
		}
	}

	prober := probe.New(exec,
		probe.WithWait(cfg.EffectiveWait()),
		probe.WithLogger(log),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sched, err := sampler.New(cfg.SchedulerOptions(), prober, renderer,
		sampler.WithLogger(log),
		sampler.WithMetrics(metrics.New(reg, cfg.Target)),
	)
	if err != nil {
		_ = closeExec()
		return nil, err
	}

	return &session{
		cfg:       cfg,
		tiers:     tiers,
		prober:    prober,
		scheduler: sched,
		registry:  reg,
		closeExec: closeExec,
	}, nil
}

// Close releases the executor's connection, if any.
func (s *session) Close() error {
	return s.closeExec()
}
