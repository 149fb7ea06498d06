package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// Validate checks the config for errors and returns structured error messages.
// Every failure is fatal at startup; nothing here is re-checked while sampling.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pingstrip only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pingstrip or lower the version field.")
	}

	if err := validateTarget(cfg.Target); err != nil {
		return err
	}

	if err := validateTiming(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check interval, min_interval, timeout and wait in your .pingstrip.yaml.")
	}

	if cfg.Samples <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("samples must be positive, got %d", cfg.Samples),
			"Set samples to the number of bars the strip should show, e.g. 16.")
	}

	if err := validateBar(cfg.Bar); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'bar' section in your .pingstrip.yaml.")
	}

	if _, err := cfg.TierTable(); err != nil {
		return err
	}

	if _, err := sampler.ParseStrategy(cfg.Strategy); err != nil {
		return err
	}
	if cfg.Workers < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("workers must be at least 2, got %d", cfg.Workers),
			"One worker lets a single hung probe block every result behind it.")
	}
	if cfg.MaxPending < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_pending must be at least 1, got %d", cfg.MaxPending),
			"The default of 3 drops probes only when the network is badly backed up.")
	}

	if cfg.SSH.DialTimeout < 0 {
		return errors.New(errors.ErrConfig, "ssh.dial_timeout must not be negative", "")
	}

	if cfg.Output.Scale < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.scale must not be negative, got %d", cfg.Output.Scale), "")
	}

	if cfg.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid listen address %q", cfg.Listen),
				`Use host:port, e.g. "127.0.0.1:9110" or ":9110".`)
		}
	}

	return nil
}

// validateTarget rejects targets ping would misread as flags or split apart.
func validateTarget(target string) error {
	if target == "" {
		return errors.New(errors.ErrConfig,
			"No target configured",
			"Set target to a hostname or IP address, e.g. 1.1.1.1.")
	}
	if strings.HasPrefix(target, "-") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Target %q looks like a command-line flag", target),
			"Use a hostname or IP address.")
	}
	if strings.ContainsAny(target, " \t\r\n") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Target %q contains whitespace", target),
			"Use a single hostname or IP address.")
	}
	return nil
}

func validateTiming(cfg *Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.MinInterval <= 0 {
		return fmt.Errorf("min_interval must be positive, got %s", cfg.MinInterval)
	}
	if cfg.MinInterval > cfg.Interval {
		return fmt.Errorf("min_interval (%s) exceeds interval (%s)", cfg.MinInterval, cfg.Interval)
	}
	if cfg.Timeout < 0 || cfg.Wait < 0 {
		return fmt.Errorf("timeout and wait must not be negative")
	}
	if cfg.Wait > cfg.EffectiveTimeout() {
		return fmt.Errorf("wait (%s) exceeds the probe timeout (%s)", cfg.Wait, cfg.EffectiveTimeout())
	}
	return nil
}

func validateBar(bar BarConfig) error {
	if bar.Width < 1 {
		return fmt.Errorf("bar.width must be at least 1, got %d", bar.Width)
	}
	if bar.Height < graph.MinBarHeight {
		return fmt.Errorf("bar.height must be at least %d, got %d", graph.MinBarHeight, bar.Height)
	}
	return nil
}

// Warnings returns non-fatal observations about a valid config.
func Warnings(cfg *Config) []string {
	var out []string
	timeout := cfg.EffectiveTimeout()

	switch sampler.Strategy(cfg.Strategy) {
	case sampler.StrategyAdaptive:
		if timeout > cfg.Interval {
			out = append(out, fmt.Sprintf(
				"timeout %s exceeds interval %s: a hung probe stretches that cycle to the timeout", timeout, cfg.Interval))
		}
	default:
		if budget := cfg.Interval * time.Duration(cfg.Workers); timeout > budget {
			out = append(out, fmt.Sprintf(
				"timeout %s exceeds interval x workers (%s): probes will be dropped whenever the target stops answering", timeout, budget))
		}
	}
	return out
}
