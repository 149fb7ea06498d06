package doctor

import (
	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Options selects the checks NewChecks builds.
type Options struct {
	ConfigPath string
	Config     *config.Config
	LoadErr    error
	// Prober runs the target check. Nil skips it.
	Prober *probe.Prober
}

// NewChecks returns the checks for the given config, in display order. The
// probe checks only run against a config that loaded and validated.
func NewChecks(opts Options) []Check {
	checks := []Check{
		&ConfigFileCheck{ConfigPath: opts.ConfigPath},
		&ConfigValidCheck{Config: opts.Config, LoadErr: opts.LoadErr},
	}

	cfg := opts.Config
	if opts.LoadErr != nil || cfg == nil || config.Validate(cfg) != nil {
		return checks
	}

	if cfg.SSH.Host != "" {
		checks = append(checks, &VantageCheck{Host: cfg.SSH.Host, DialTimeout: cfg.SSH.DialTimeout})
	} else {
		checks = append(checks, &PingCommandCheck{})
	}

	if opts.Prober != nil {
		checks = append(checks, &TargetCheck{
			Target:  cfg.Target,
			Timeout: cfg.EffectiveTimeout(),
			Prober:  opts.Prober,
		})
	}
	return checks
}
