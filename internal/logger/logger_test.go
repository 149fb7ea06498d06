package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{
			name:      "logs when PINGSTRIP_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "logs when PINGSTRIP_DEBUG is any value",
			envValue:  "true",
			expectLog: true,
		},
		{
			name:      "does not log when PINGSTRIP_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if tt.envValue != "" {
				t.Setenv(DebugEnv, tt.envValue)
			} else {
				t.Setenv(DebugEnv, "")
				os.Unsetenv(DebugEnv)
			}

			l := NewEnvLoggerTo("sampler", &buf)
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "component=sampler")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{"info", func(l Logger) { l.Info("info message %d", 42) }, "INF", "info message 42"},
		{"warn", func(l Logger) { l.Warn("warning message") }, "WRN", "warning message"},
		{"error", func(l Logger) { l.Error("error message") }, "ERR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewEnvLoggerTo("probe", &buf))

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, tt.msg)
			assert.Contains(t, out, "component=probe")
		})
	}
}

func TestEnvLogger_NoPrefixOmitsComponent(t *testing.T) {
	var buf bytes.Buffer
	NewEnvLoggerTo("", &buf).Info("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "component=")
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	msgs := l.Snapshot()
	require.Len(t, msgs, 4)

	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, msgs[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, msgs[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, msgs[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, msgs[3])
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}
