package probe

import (
	"context"
	stderrors "errors"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// DefaultCommand is the latency command run by LocalExecutor.
const DefaultCommand = "ping"

// LocalExecutor runs the system ping command once per probe.
type LocalExecutor struct {
	// Command overrides the binary name (default "ping").
	Command string
	// GOOS selects the argument dialect; empty means the running OS.
	GOOS string
}

// Run executes a single-echo ping against target.
// A non-zero exit is reported as ok=false with a nil error so callers can
// tell "no reply" apart from "could not run ping at all".
func (e LocalExecutor) Run(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
	name := e.Command
	if name == "" {
		name = DefaultCommand
	}
	goos := e.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	cmd := exec.CommandContext(ctx, name, PingArgs(goos, target, wait)...)
	cmd.WaitDelay = 500 * time.Millisecond

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return false, string(out), nil
		}
		return false, string(out), err
	}
	return true, string(out), nil
}

// PingArgs returns the ping arguments for one echo request on goos.
// The reply wait flag differs per platform: -W in milliseconds on macOS,
// FreeBSD and Windows (-w), -w in seconds on OpenBSD, -W in seconds on
// NetBSD and Linux.
func PingArgs(goos, target string, wait time.Duration) []string {
	switch goos {
	case "darwin", "freebsd":
		args := []string{"-c", "1"}
		if wait > 0 {
			args = append(args, "-W", strconv.FormatInt(wait.Milliseconds(), 10))
		}
		return append(args, target)
	case "openbsd":
		args := []string{"-c", "1"}
		if wait > 0 {
			args = append(args, "-w", waitSeconds(wait))
		}
		return append(args, target)
	case "windows":
		args := []string{"-n", "1"}
		if wait > 0 {
			args = append(args, "-w", strconv.FormatInt(wait.Milliseconds(), 10))
		}
		return append(args, target)
	default:
		args := []string{"-c", "1"}
		if wait > 0 {
			args = append(args, "-W", waitSeconds(wait))
		}
		return append(args, target)
	}
}

// waitSeconds rounds wait up to whole seconds, at least one.
func waitSeconds(wait time.Duration) string {
	secs := int64(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
