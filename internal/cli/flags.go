package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/ui"
)

// GlobalFlags holds the persistent flags. Zero values leave the config alone.
type GlobalFlags struct {
	Config   string
	Target   string
	Interval time.Duration
	Strategy string
	Samples  int
	Verbose  bool
	NoColor  bool
}

// AddGlobalFlags registers the persistent flags on cmd.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.Config, "config", "", "config file (default: search for .pingstrip.yaml)")
	pf.StringVarP(&flags.Target, "target", "t", "", "host or address to probe")
	pf.DurationVarP(&flags.Interval, "interval", "i", 0, "time between probes (e.g. 1s, 500ms)")
	pf.StringVar(&flags.Strategy, "strategy", "", `scheduling strategy: "pool" or "adaptive"`)
	pf.IntVarP(&flags.Samples, "samples", "n", 0, "number of bars in the strip")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print debug logs")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
}

// Apply overrides cfg with every flag that was set.
func (f GlobalFlags) Apply(cfg *config.Config) {
	if f.Target != "" {
		cfg.Target = f.Target
	}
	if f.Interval > 0 {
		cfg.Interval = f.Interval
		// Keep the floor valid when the interval drops below it.
		if cfg.MinInterval > cfg.Interval {
			cfg.MinInterval = cfg.Interval
		}
	}
	if f.Strategy != "" {
		cfg.Strategy = f.Strategy
	}
	if f.Samples > 0 {
		cfg.Samples = f.Samples
	}
}

// loadConfig finds, loads, overrides and validates the config. Warnings are
// written to warnOut.
func loadConfig(flags GlobalFlags, warnOut io.Writer) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(flags.Config)
	if err != nil {
		return nil, err
	}

	flags.Apply(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	for _, w := range config.Warnings(cfg) {
		ui.FprintWarning(warnOut, w)
	}
	return cfg, nil
}
