package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/monitor"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

var watchZoom int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the latency strip in the terminal",
	Long: `Open a full-screen view of the latency strip. The strip scrolls left as
probes complete; the status line shows the newest result.

Keys: p or space pauses, + and - zoom, ? shows help, q quits.`,
	Args: cobra.NoArgs,
	RunE: watchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	for _, cmd := range []*cobra.Command{rootCmd, watchCmd} {
		cmd.Flags().IntVar(&watchZoom, "zoom", monitor.DefaultZoom, "terminal columns per pixel column (1-8)")
	}
}

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Config *config.Config
	Zoom   int

	// Executor overrides the probe executor picked from Config.
	Executor probe.Executor
	// ProgramOptions are passed to the Bubble Tea program.
	ProgramOptions []tea.ProgramOption
}

func watchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(globalFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Watch(ctx, WatchOptions{Config: cfg, Zoom: watchZoom})
}

// Watch runs the sampler behind the terminal viewer until the user quits or
// ctx is cancelled.
func Watch(ctx context.Context, opts WatchOptions) error {
	// The viewer owns the screen; log lines would tear it.
	sess, err := newSession(opts.Config, logger.Noop(), opts.Executor)
	if err != nil {
		return err
	}
	defer sess.Close()

	frames, unsubscribe := sess.scheduler.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.scheduler.Run(gctx)
	})
	g.Go(func() error {
		// Quitting the viewer stops the sampler.
		defer cancel()
		return monitor.Run(gctx, frames, monitor.Options{
			Target:   opts.Config.Target,
			Strategy: sampler.Strategy(opts.Config.Strategy),
			Interval: opts.Config.Interval,
			Tiers:    sess.tiers,
			Zoom:     opts.Zoom,
		}, opts.ProgramOptions...)
	})
	return g.Wait()
}
