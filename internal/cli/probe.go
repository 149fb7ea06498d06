package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
	"github.com/rileyhilliard/pingstrip/internal/ui"
)

var probeCount int

var probeCmd = &cobra.Command{
	Use:   "probe [target]",
	Short: "Probe the target and print the results",
	Long: `Send one probe, or --count probes one interval apart, and print each
result. With more than one probe a summary and sparkline follow.

Exits with status 1 when no probe was answered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := globalFlags
		if len(args) == 1 {
			flags.Target = args[0]
		}
		cfg, err := loadConfig(flags, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return Probe(ctx, ProbeOptions{
			Config: cfg,
			Count:  probeCount,
			Out:    cmd.OutOrStdout(),
			Logger: logger.NewEnvLoggerTo("probe", cmd.ErrOrStderr()),
		})
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVarP(&probeCount, "count", "c", 1, "number of probes to send")
}

// ProbeOptions holds options for the probe command.
type ProbeOptions struct {
	Config *config.Config
	Count  int
	Out    io.Writer
	Logger logger.Logger

	// Executor overrides the probe executor picked from Config.
	Executor probe.Executor
}

// Probe sends Count probes one interval apart, printing each result. It
// returns an exit error with status 1 when every probe failed.
func Probe(ctx context.Context, opts ProbeOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	count := max(opts.Count, 1)
	cfg := opts.Config

	sess, err := newSession(cfg, log, opts.Executor)
	if err != nil {
		return err
	}
	defer sess.Close()

	var stats sampler.Stats
	samples := make([]probe.Measurement, 0, count)

	for i := 1; i <= count; i++ {
		start := time.Now()
		m := sess.prober.Probe(ctx, cfg.Target, cfg.EffectiveTimeout())
		if ctx.Err() != nil {
			break
		}
		stats.Add(m)
		samples = append(samples, m)
		fmt.Fprintln(out, ui.ProbeLine(i, cfg.Target, m))

		if i == count {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(sampler.NextDelay(cfg.Interval, 0, time.Since(start))):
		}
		if ctx.Err() != nil {
			break
		}
	}

	if count > 1 && stats.Sent > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.RenderProbeSummary(cfg.Target, samples, stats, sess.tiers))
	}

	if stats.Received() == 0 {
		return &exitError{code: 1}
	}
	return nil
}
