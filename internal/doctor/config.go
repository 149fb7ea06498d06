package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/pingstrip/internal/config"
)

// ConfigFileCheck reports which config file is in effect.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check the --config path or run 'pingstrip init'",
		}
	}
	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'pingstrip init' to create a " + config.ConfigFileName,
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// ConfigValidCheck validates the loaded config and surfaces its warnings.
type ConfigValidCheck struct {
	Config  *config.Config
	LoadErr error
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return CategoryConfig }

func (c *ConfigValidCheck) Run(ctx context.Context) CheckResult {
	if c.LoadErr != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %v", c.LoadErr),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}
	if c.Config == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "No config loaded",
		}
	}
	if err := config.Validate(c.Config); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid config: %v", err),
			Suggestion: "Fix the values above in your " + config.ConfigFileName,
		}
	}
	if warnings := config.Warnings(c.Config); len(warnings) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    strings.Join(warnings, "; "),
			Suggestion: "Lower timeout, or raise interval or workers",
		}
	}
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Config valid: %s every %s (%s)",
			c.Config.Target, c.Config.Interval, c.Config.Strategy),
	}
}
