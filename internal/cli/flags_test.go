package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/errors"
)

func TestGlobalFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		flags GlobalFlags
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "zero flags change nothing",
			flags: GlobalFlags{},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultConfig(), cfg)
			},
		},
		{
			name:  "target",
			flags: GlobalFlags{Target: "example.com"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "example.com", cfg.Target)
			},
		},
		{
			name:  "interval above the floor",
			flags: GlobalFlags{Interval: 5 * time.Second},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 5*time.Second, cfg.Interval)
				assert.Equal(t, 100*time.Millisecond, cfg.MinInterval)
			},
		},
		{
			name:  "interval below the floor lowers it",
			flags: GlobalFlags{Interval: 50 * time.Millisecond},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 50*time.Millisecond, cfg.Interval)
				assert.Equal(t, 50*time.Millisecond, cfg.MinInterval)
			},
		},
		{
			name:  "strategy and samples",
			flags: GlobalFlags{Strategy: "adaptive", Samples: 40},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "adaptive", cfg.Strategy)
				assert.Equal(t, 40, cfg.Samples)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.flags.Apply(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateDir(t)

	var warn bytes.Buffer
	cfg, err := loadConfig(GlobalFlags{}, &warn)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Empty(t, warn.String())
}

func TestLoadConfigFlagsOverFile(t *testing.T) {
	dir := isolateDir(t)

	fileCfg := config.DefaultConfig()
	fileCfg.Target = "file.example"
	fileCfg.Samples = 8
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, config.Write(path, fileCfg))

	cfg, err := loadConfig(GlobalFlags{Target: "flag.example"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "flag.example", cfg.Target)
	assert.Equal(t, 8, cfg.Samples, "file value kept when the flag is unset")
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := isolateDir(t)

	fileCfg := config.DefaultConfig()
	fileCfg.Target = "elsewhere.example"
	path := filepath.Join(dir, "nested", "custom.yaml")
	require.NoError(t, config.Write(path, fileCfg))

	cfg, err := loadConfig(GlobalFlags{Config: path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.example", cfg.Target)
}

func TestLoadConfigInvalid(t *testing.T) {
	isolateDir(t)

	_, err := loadConfig(GlobalFlags{Strategy: "round-robin"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfigWarnings(t *testing.T) {
	dir := isolateDir(t)

	fileCfg := config.DefaultConfig()
	fileCfg.Timeout = 10 * time.Second
	require.NoError(t, config.Write(filepath.Join(dir, config.ConfigFileName), fileCfg))

	var warn bytes.Buffer
	_, err := loadConfig(GlobalFlags{}, &warn)
	require.NoError(t, err)
	assert.Contains(t, warn.String(), "probes will be dropped")
}
