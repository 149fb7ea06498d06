package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/server"
	"github.com/rileyhilliard/pingstrip/internal/ui"
)

// shutdownTimeout bounds how long the HTTP server drains on exit.
const shutdownTimeout = 5 * time.Second

var (
	runPNG      string
	runScale    int
	runListen   string
	runDuration time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample without a terminal UI",
	Long: `Sample in the background: one log line per probe, optionally rewriting a
PNG of the strip after every probe and serving it over HTTP.

Examples:
  pingstrip run --png strip.png --scale 4
  pingstrip run --listen 127.0.0.1:9110
  pingstrip run --duration 1m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(globalFlags, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("png") {
			cfg.Output.PNG = runPNG
		}
		if cmd.Flags().Changed("scale") {
			cfg.Output.Scale = runScale
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen = runListen
		}
		// Flag overrides are checked like file values.
		if err := config.Validate(cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return Run(ctx, RunOptions{
			Config:   cfg,
			Duration: runDuration,
			Out:      cmd.OutOrStdout(),
			Logger:   logger.NewEnvLoggerTo("run", cmd.ErrOrStderr()),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runPNG, "png", "", "rewrite this PNG file after every probe")
	runCmd.Flags().IntVar(&runScale, "scale", 1, "PNG enlargement factor")
	runCmd.Flags().StringVar(&runListen, "listen", "", "serve /status, /graph.png and /metrics on this address")
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "stop after this long (default: until interrupted)")
}

// RunOptions holds options for a headless run.
type RunOptions struct {
	Config *config.Config
	// Duration stops the run after this long. Zero runs until ctx ends.
	Duration time.Duration
	// Out receives the closing summary.
	Out    io.Writer
	Logger logger.Logger

	// Executor overrides the probe executor picked from Config.
	Executor probe.Executor
}

// Run samples until ctx is cancelled or the duration elapses, logging each
// frame and keeping the PNG file and HTTP server current. A summary of the
// final frame is written to Out.
func Run(ctx context.Context, opts RunOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	cfg := opts.Config

	sess, err := newSession(cfg, log, opts.Executor)
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	frames, unsubscribe := sess.scheduler.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.scheduler.Run(gctx)
	})

	g.Go(func() error {
		for f := range frames {
			log.Info("seq=%d %s", f.Seq, f.Latest)
			if cfg.Output.PNG == "" {
				continue
			}
			if err := writePNG(cfg.Output.PNG, f.Image, cfg.Output.Scale); err != nil {
				return err
			}
		}
		return nil
	})

	if cfg.Listen != "" {
		srv := server.New(sess.scheduler, sess.registry, log)
		g.Go(func() error {
			return srv.Start(cfg.Listen)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()

	if f := sess.scheduler.Frame(); f != nil {
		fmt.Fprint(out, ui.RenderProbeSummary(cfg.Target, f.Samples, f.Stats, sess.tiers))
		if f.Dropped > 0 {
			fmt.Fprintln(out, ui.MutedStyle().Render(fmt.Sprintf("%d ticks dropped", f.Dropped)))
		}
	}
	return err
}

// writePNG replaces path with the strip. The file is written beside path and
// renamed so readers never see a partial image.
func writePNG(path string, img *image.RGBA, scale int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pingstrip-*.png")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to create "+path,
			"Check write permissions in "+filepath.Dir(path))
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0644)

	if err := graph.EncodePNG(tmp, img, scale); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender, "Failed to write "+path, "")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender, "Failed to replace "+path, "")
	}
	return nil
}
