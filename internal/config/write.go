package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pingstrip/internal/errors"
)

const fileHeader = `# pingstrip configuration
# Tiers map latency (ms) to colors; the first tier must start at 0 and
# the last tier's color marks failed probes.
# Docs: https://github.com/rileyhilliard/pingstrip

`

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This is a bug. Please report it.")
	}
	return append([]byte(fileHeader), data...), nil
}

// Write saves cfg to path, creating parent directories as needed.
func Write(path string, cfg *Config) error {
	content, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check write permissions for "+filepath.Dir(path))
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check write permissions in the directory")
	}
	return nil
}
