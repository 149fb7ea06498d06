package config

import (
	"time"

	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .pingstrip.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Target is the host or address to probe.
	Target string `yaml:"target" mapstructure:"target"`

	// Interval is the nominal time between probes.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// MinInterval floors the adaptive strategy's wait between probes.
	MinInterval time.Duration `yaml:"min_interval" mapstructure:"min_interval"`

	// Samples is the number of bars in the strip.
	Samples int `yaml:"samples" mapstructure:"samples"`

	// Timeout bounds one probe. Zero derives interval * workers.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// Wait is how long ping itself waits for a reply. Zero means timeout.
	Wait time.Duration `yaml:"wait,omitempty" mapstructure:"wait"`

	Workers    int    `yaml:"workers" mapstructure:"workers"`
	MaxPending int    `yaml:"max_pending" mapstructure:"max_pending"`
	Strategy   string `yaml:"strategy" mapstructure:"strategy"`

	Bar    BarConfig    `yaml:"bar" mapstructure:"bar"`
	Tiers  []TierConfig `yaml:"tiers" mapstructure:"tiers"`
	SSH    SSHConfig    `yaml:"ssh,omitempty" mapstructure:"ssh"`
	Output OutputConfig `yaml:"output,omitempty" mapstructure:"output"`

	// Listen is the address for the HTTP status server, e.g. "127.0.0.1:9110".
	// Empty disables it.
	Listen string `yaml:"listen,omitempty" mapstructure:"listen"`
}

// BarConfig sets the pixel size of one bar.
type BarConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// TierConfig is one latency band: latencies from Limit (ms) up to the next
// tier's limit use Color.
type TierConfig struct {
	Limit float64 `yaml:"limit" mapstructure:"limit"`
	Color string  `yaml:"color" mapstructure:"color"`
}

// SSHConfig moves probing to a remote vantage host.
type SSHConfig struct {
	// Host is an ssh_config alias or user@host[:port]. Empty probes locally.
	Host        string        `yaml:"host,omitempty" mapstructure:"host"`
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" mapstructure:"dial_timeout"`
}

// OutputConfig controls file output for headless runs.
type OutputConfig struct {
	// PNG is a path rewritten with the strip after every probe.
	PNG string `yaml:"png,omitempty" mapstructure:"png"`
	// Scale enlarges the PNG by an integer factor.
	Scale int `yaml:"scale,omitempty" mapstructure:"scale"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     CurrentConfigVersion,
		Target:      "1.1.1.1",
		Interval:    sampler.DefaultInterval,
		MinInterval: sampler.DefaultMinInterval,
		Samples:     16,
		Workers:     sampler.DefaultWorkers,
		MaxPending:  sampler.DefaultMaxPending,
		Strategy:    string(sampler.StrategyPool),
		Bar: BarConfig{
			Width:  3,
			Height: 18,
		},
		Tiers:  DefaultTiers(),
		SSH:    SSHConfig{DialTimeout: 10 * time.Second},
		Output: OutputConfig{Scale: 1},
	}
}

// DefaultTiers returns the stock tier table in config form.
func DefaultTiers() []TierConfig {
	tiers := graph.DefaultTiers()
	out := make([]TierConfig, len(tiers))
	for i, t := range tiers {
		out[i] = TierConfig{Limit: t.LowerBound, Color: graph.FormatColor(t.Color)}
	}
	return out
}

// TierTable parses and validates the configured tiers.
func (c *Config) TierTable() (*graph.TierTable, error) {
	tiers := make([]graph.Tier, len(c.Tiers))
	for i, t := range c.Tiers {
		col, err := graph.ParseColor(t.Color)
		if err != nil {
			return nil, err
		}
		tiers[i] = graph.Tier{LowerBound: t.Limit, Color: col}
	}
	return graph.NewTierTable(tiers)
}

// EffectiveTimeout is the probe timeout, derived from the interval and
// worker count when unset.
func (c *Config) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	workers := c.Workers
	if workers <= 0 {
		workers = sampler.DefaultWorkers
	}
	return c.Interval * time.Duration(workers)
}

// EffectiveWait is the reply wait handed to ping, never above the timeout.
func (c *Config) EffectiveWait() time.Duration {
	timeout := c.EffectiveTimeout()
	if c.Wait <= 0 || c.Wait > timeout {
		return timeout
	}
	return c.Wait
}

// SchedulerOptions converts the config into scheduler options.
func (c *Config) SchedulerOptions() sampler.Options {
	return sampler.Options{
		Target:      c.Target,
		Interval:    c.Interval,
		MinInterval: c.MinInterval,
		Timeout:     c.EffectiveTimeout(),
		Workers:     c.Workers,
		MaxPending:  c.MaxPending,
		Strategy:    sampler.Strategy(c.Strategy),
	}
}
