// Package logger provides a simple logging interface for pingstrip components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// DebugEnv enables debug output from the environment logger when set.
const DebugEnv = "PINGSTRIP_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger implements Logger on top of a zerolog console writer.
// Debug messages are only printed when PINGSTRIP_DEBUG is set.
type envLogger struct {
	prefix string
	zl     zerolog.Logger
}

// NewEnvLogger creates a logger that writes to stderr and respects PINGSTRIP_DEBUG.
// The prefix is attached to every line as the "component" field (e.g. "sampler").
func NewEnvLogger(prefix string) Logger {
	return NewEnvLoggerTo(prefix, os.Stderr)
}

// NewEnvLoggerTo is NewEnvLogger with an explicit destination.
func NewEnvLoggerTo(prefix string, w io.Writer) Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	ctx := zerolog.New(out).With().Timestamp()
	if prefix != "" {
		ctx = ctx.Str("component", prefix)
	}
	return &envLogger{prefix: prefix, zl: ctx.Logger()}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		l.zl.Debug().Msgf(format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
// The terminal UI uses it while the alt screen owns the terminal.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is safe for concurrent use since the sampler logs from worker goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}
