package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func replyProber(output string, ok bool) *probe.Prober {
	return probe.New(probe.ExecutorFunc(func(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
		return ok, output, nil
	}))
}

func TestConfigFileCheck(t *testing.T) {
	dir := isolate(t)

	t.Run("no file warns", func(t *testing.T) {
		r := (&ConfigFileCheck{}).Run(context.Background())
		assert.Equal(t, StatusWarn, r.Status)
		assert.Contains(t, r.Suggestion, "pingstrip init")
	})

	t.Run("found", func(t *testing.T) {
		path := filepath.Join(dir, config.ConfigFileName)
		require.NoError(t, config.Write(path, config.DefaultConfig()))

		r := (&ConfigFileCheck{}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
		assert.Contains(t, r.Message, config.ConfigFileName)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		r := (&ConfigFileCheck{ConfigPath: filepath.Join(dir, "nope.yaml")}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
	})
}

func TestConfigValidCheck(t *testing.T) {
	tests := []struct {
		name    string
		check   ConfigValidCheck
		want    CheckStatus
		message string
	}{
		{
			name:    "defaults",
			check:   ConfigValidCheck{Config: config.DefaultConfig()},
			want:    StatusPass,
			message: "1.1.1.1 every 1s (pool)",
		},
		{
			name:    "load error",
			check:   ConfigValidCheck{LoadErr: errors.New("yaml: line 3")},
			want:    StatusFail,
			message: "yaml: line 3",
		},
		{
			name:    "nil config",
			check:   ConfigValidCheck{},
			want:    StatusFail,
			message: "No config loaded",
		},
		{
			name: "invalid",
			check: ConfigValidCheck{Config: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Samples = 0
				return cfg
			}()},
			want:    StatusFail,
			message: "samples must be positive",
		},
		{
			name: "warning",
			check: ConfigValidCheck{Config: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Timeout = time.Minute
				return cfg
			}()},
			want:    StatusWarn,
			message: "probes will be dropped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.check.Run(context.Background())
			assert.Equal(t, tt.want, r.Status)
			assert.Contains(t, r.Message, tt.message)
		})
	}
}

func TestPingCommandCheck(t *testing.T) {
	found := &PingCommandCheck{LookPath: func(file string) (string, error) {
		assert.Equal(t, "ping", file)
		return "/bin/ping", nil
	}}
	r := found.Run(context.Background())
	assert.Equal(t, StatusPass, r.Status)
	assert.Equal(t, "ping found: /bin/ping", r.Message)

	missing := &PingCommandCheck{Command: "ping6", LookPath: func(string) (string, error) {
		return "", errors.New("not found")
	}}
	r = missing.Run(context.Background())
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "ping6 not found")
}

func TestVantageCheck(t *testing.T) {
	closed := false
	ok := &VantageCheck{Host: "vantage", Dial: func(host string, timeout time.Duration) (string, func() error, error) {
		return "10.0.0.5:22", func() error { closed = true; return nil }, nil
	}}
	r := ok.Run(context.Background())
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, r.Message, "10.0.0.5:22")
	assert.True(t, closed, "connection closed after the check")

	failing := &VantageCheck{Host: "vantage", Dial: func(string, time.Duration) (string, func() error, error) {
		return "", nil, errors.New("connection refused")
	}}
	r = failing.Run(context.Background())
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, "Check that the host is reachable: ssh vantage", r.Suggestion)
}

func TestTargetCheck(t *testing.T) {
	answered := &TargetCheck{Target: "1.1.1.1", Timeout: time.Second, Prober: replyProber("time=9.5 ms", true)}
	r := answered.Run(context.Background())
	assert.Equal(t, StatusPass, r.Status)
	assert.Equal(t, "1.1.1.1 answered in 9.500 ms", r.Message)

	silent := &TargetCheck{Target: "1.1.1.1", Timeout: time.Second, Prober: replyProber("", false)}
	r = silent.Run(context.Background())
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "No reply from 1.1.1.1 within 1s")
}

func TestNewChecks(t *testing.T) {
	names := func(checks []Check) []string {
		out := make([]string, len(checks))
		for i, c := range checks {
			out[i] = c.Name()
		}
		return out
	}

	t.Run("local", func(t *testing.T) {
		checks := NewChecks(Options{Config: config.DefaultConfig(), Prober: replyProber("", true)})
		assert.Equal(t, []string{"config_file", "config_valid", "ping_command", "target_reply"}, names(checks))
	})

	t.Run("ssh vantage", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.SSH.Host = "vantage"
		checks := NewChecks(Options{Config: cfg})
		assert.Equal(t, []string{"config_file", "config_valid", "ssh_vantage"}, names(checks))
	})

	t.Run("invalid config skips probe checks", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Workers = 1
		checks := NewChecks(Options{Config: cfg, Prober: replyProber("", true)})
		assert.Equal(t, []string{"config_file", "config_valid"}, names(checks))
	})

	t.Run("load error", func(t *testing.T) {
		checks := NewChecks(Options{LoadErr: errors.New("bad")})
		assert.Equal(t, []string{"config_file", "config_valid"}, names(checks))
	})
}
