package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})
	SetVersionInfo(v, c, d)
}

func TestVersionOutput(t *testing.T) {
	withVersion(t, "1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	var buf bytes.Buffer
	printVersion(&buf, false)
	output := buf.String()

	assert.Contains(t, output, "pingstrip v1.2.3", "should show version with v prefix")
	assert.Contains(t, output, "commit: abc1234")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z")
	assert.Contains(t, output, "go: "+runtime.Version())
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionOutputShort(t *testing.T) {
	withVersion(t, "1.2.3", "abc1234", "today")

	var buf bytes.Buffer
	printVersion(&buf, true)

	assert.Equal(t, "1.2.3\n", buf.String(), "short output is the raw version")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{"dev", "dev"},
		{"", ""},
		{"0.1.0-rc1", "v0.1.0-rc1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.input))
		})
	}
}
