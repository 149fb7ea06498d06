package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingstrip/internal/config"
)

func TestDoctorTextReport(t *testing.T) {
	isolateDir(t)

	var out bytes.Buffer
	err := Doctor(context.Background(), DoctorOptions{
		Flags:    GlobalFlags{Target: "192.0.2.1"},
		Out:      &out,
		Executor: replyExec(nil, "7.25"),
	})

	output := out.String()
	assert.Contains(t, output, "pingstrip diagnostic report")
	assert.Contains(t, output, "CONFIG")
	assert.Contains(t, output, "No config file found, using defaults")
	assert.Contains(t, output, "PROBE")
	assert.Contains(t, output, "192.0.2.1 answered in 7.250 ms")

	// ping may be missing on the test machine; only that check can fail.
	if err != nil {
		var exit *exitError
		require.True(t, stderrors.As(err, &exit))
		assert.Contains(t, output, "ping not found on PATH")
	}
}

func TestDoctorJSON(t *testing.T) {
	dir := isolateDir(t)

	cfg := config.DefaultConfig()
	cfg.SSH.Host = "vantage.invalid"
	cfg.SSH.DialTimeout = time.Millisecond
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, config.Write(path, cfg))

	var out bytes.Buffer
	err := Doctor(context.Background(), DoctorOptions{
		JSON:     true,
		Out:      &out,
		Executor: silentExec,
	})
	require.Error(t, err, "the vantage host and target both fail")

	var report DoctorOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	require.Len(t, report.Categories, 2)
	assert.Equal(t, "CONFIG", report.Categories[0].Name)
	assert.Equal(t, "PROBE", report.Categories[1].Name)
	assert.Equal(t, 2, report.Summary.Fail)
	assert.False(t, report.Summary.AllClear)
}

func TestDoctorInvalidConfigReported(t *testing.T) {
	isolateDir(t)

	var out bytes.Buffer
	err := Doctor(context.Background(), DoctorOptions{
		Flags: GlobalFlags{Strategy: "burst"},
		Out:   &out,
	})
	require.Error(t, err)

	var exit *exitError
	require.True(t, stderrors.As(err, &exit), "config errors are reported, not returned")
	assert.Contains(t, out.String(), "Invalid config")
	assert.NotContains(t, out.String(), "PROBE")
}
