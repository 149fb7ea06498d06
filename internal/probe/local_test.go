package probe

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingArgs(t *testing.T) {
	tests := []struct {
		name string
		goos string
		wait time.Duration
		want []string
	}{
		{"darwin waits in ms", "darwin", 2 * time.Second, []string{"-c", "1", "-W", "2000", "1.1.1.1"}},
		{"linux waits in seconds", "linux", 2 * time.Second, []string{"-c", "1", "-W", "2", "1.1.1.1"}},
		{"linux rounds sub-second up", "linux", 300 * time.Millisecond, []string{"-c", "1", "-W", "1", "1.1.1.1"}},
		{"linux rounds partial seconds up", "linux", 1500 * time.Millisecond, []string{"-c", "1", "-W", "2", "1.1.1.1"}},
		{"freebsd waits in ms", "freebsd", 2 * time.Second, []string{"-c", "1", "-W", "2000", "1.1.1.1"}},
		{"openbsd uses -w in seconds", "openbsd", 1500 * time.Millisecond, []string{"-c", "1", "-w", "2", "1.1.1.1"}},
		{"openbsd no wait", "openbsd", 0, []string{"-c", "1", "1.1.1.1"}},
		{"netbsd waits in seconds", "netbsd", 2 * time.Second, []string{"-c", "1", "-W", "2", "1.1.1.1"}},
		{"windows", "windows", time.Second, []string{"-n", "1", "-w", "1000", "1.1.1.1"}},
		{"no wait", "linux", 0, []string{"-c", "1", "1.1.1.1"}},
		{"unknown os falls back to linux", "plan9", time.Second, []string{"-c", "1", "-W", "1", "1.1.1.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PingArgs(tt.goos, "1.1.1.1", tt.wait))
		})
	}
}

func TestLocalExecutor_ExitStatus(t *testing.T) {
	ok, _, err := LocalExecutor{Command: "false", GOOS: "linux"}.Run(context.Background(), "x", 0)
	if _, lookErr := exec.LookPath("false"); lookErr == nil {
		assert.NoError(t, err)
		assert.False(t, ok)
	}

	ok, _, err = LocalExecutor{Command: "true", GOOS: "linux"}.Run(context.Background(), "x", 0)
	if _, lookErr := exec.LookPath("true"); lookErr == nil {
		assert.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestLocalExecutor_MissingBinary(t *testing.T) {
	ok, _, err := LocalExecutor{Command: "pingstrip-definitely-not-a-binary"}.Run(context.Background(), "x", 0)
	assert.False(t, ok)
	assert.Error(t, err)
}
