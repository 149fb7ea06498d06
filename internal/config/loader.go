package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/pingstrip/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".pingstrip.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/pingstrip"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PINGSTRIP_TARGET.
	EnvPrefix = "PINGSTRIP"
)

// Load reads config from the specified path, layered over defaults and
// under PINGSTRIP_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'pingstrip init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .pingstrip.yaml in current directory
// 3. .pingstrip.yaml in parent directories (stops at git root or home)
// 4. ~/.config/pingstrip/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for !isGitRoot(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault finds and loads the config, falling back to defaults (plus
// environment overrides) when no file exists. It returns the path it loaded,
// empty for defaults.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every scalar key so environment overrides apply
// even when the file omits the key.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("target", d.Target)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("min_interval", d.MinInterval)
	v.SetDefault("samples", d.Samples)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("wait", d.Wait)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_pending", d.MaxPending)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("bar.width", d.Bar.Width)
	v.SetDefault("bar.height", d.Bar.Height)
	v.SetDefault("ssh.host", d.SSH.Host)
	v.SetDefault("ssh.dial_timeout", d.SSH.DialTimeout)
	v.SetDefault("output.png", d.Output.PNG)
	v.SetDefault("output.scale", d.Output.Scale)
	v.SetDefault("listen", d.Listen)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	// A configured tier list replaces the defaults rather than merging
	// element by element.
	if v.IsSet("tiers") {
		cfg.Tiers = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	return cfg, nil
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
