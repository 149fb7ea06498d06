package cli

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// isolateDir runs the test from an empty directory with an empty home so no
// real config on the machine leaks in.
func isolateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

// fastConfig is a small strip probed every 20ms.
func fastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Target = "192.0.2.1"
	cfg.Interval = 20 * time.Millisecond
	cfg.MinInterval = 5 * time.Millisecond
	cfg.Timeout = 40 * time.Millisecond
	cfg.Samples = 4
	cfg.Bar = config.BarConfig{Width: 2, Height: 6}
	return cfg
}

// replyExec answers every probe with ping output reporting ms.
func replyExec(calls *atomic.Int32, ms string) probe.Executor {
	return probe.ExecutorFunc(func(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
		if calls != nil {
			calls.Add(1)
		}
		return true, "64 bytes from " + target + ": icmp_seq=1 ttl=57 time=" + ms + " ms", nil
	})
}

// silentExec never gets a reply.
var silentExec = probe.ExecutorFunc(func(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
	return false, "Request timeout for icmp_seq 0", nil
})

func TestNewSession(t *testing.T) {
	cfg := fastConfig()
	sess, err := newSession(cfg, logger.Noop(), replyExec(nil, "12.3"))
	require.NoError(t, err)
	defer sess.Close()

	require.NotNil(t, sess.scheduler)
	require.NotNil(t, sess.prober)
	assert.Equal(t, 4, sess.tiers.Len())
	assert.Equal(t, cfg.Target, sess.scheduler.Options().Target)
	assert.Equal(t, cfg.Timeout, sess.scheduler.Options().Timeout)

	m := sess.prober.Probe(context.Background(), cfg.Target, time.Second)
	ms, ok := m.Milliseconds()
	require.True(t, ok)
	assert.InDelta(t, 12.3, ms, 1e-9)
}

func TestNewSessionRegistersMetrics(t *testing.T) {
	sess, err := newSession(fastConfig(), logger.Noop(), replyExec(nil, "1"))
	require.NoError(t, err)
	defer sess.Close()

	families, err := sess.registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"], "runtime collector registered")
	assert.True(t, names["pingstrip_probe_drops_total"], "scheduler metrics registered")
}

func TestNewSessionErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name:   "bad tier color",
			mutate: func(cfg *config.Config) { cfg.Tiers[1].Color = "not-a-color" },
		},
		{
			name:   "bar too short",
			mutate: func(cfg *config.Config) { cfg.Bar.Height = 1 },
		},
		{
			name:   "one worker",
			mutate: func(cfg *config.Config) { cfg.Workers = 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fastConfig()
			tt.mutate(cfg)

			_, err := newSession(cfg, logger.Noop(), replyExec(nil, "1"))
			require.Error(t, err)
		})
	}
}

func TestNewSessionPicksExecutor(t *testing.T) {
	t.Run("ssh host configured", func(t *testing.T) {
		cfg := fastConfig()
		cfg.SSH.Host = "vantage.invalid"

		sess, err := newSession(cfg, logger.Noop(), nil)
		require.NoError(t, err)
		// Nothing was dialed yet, so closing is a no-op.
		assert.NoError(t, sess.Close())
	})

	t.Run("local", func(t *testing.T) {
		sess, err := newSession(fastConfig(), logger.Noop(), nil)
		require.NoError(t, err)
		assert.NoError(t, sess.Close())
	})
}

func TestExitError(t *testing.T) {
	err := &exitError{code: 1}
	assert.Equal(t, "exit status 1", err.Error())
	assert.False(t, errors.IsCode(err, errors.ErrConfig))
}
