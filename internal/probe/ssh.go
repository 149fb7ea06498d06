package probe

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/util"
	"github.com/rileyhilliard/pingstrip/pkg/sshutil"
	"golang.org/x/crypto/ssh"
)

// remoteRunner is the slice of *sshutil.Client the SSH executor needs.
type remoteRunner interface {
	Output(ctx context.Context, cmd string) ([]byte, error)
	Close() error
}

// SSHExecutor runs ping on a remote vantage host. The connection is dialed
// lazily, shared by concurrent probes, and redialed after a transport error.
type SSHExecutor struct {
	host        string
	dialTimeout time.Duration
	dial        func(host string, timeout time.Duration) (remoteRunner, error)

	mu     sync.Mutex
	client remoteRunner
	goos   string
}

// NewSSHExecutor creates an executor that probes from host.
func NewSSHExecutor(host string, dialTimeout time.Duration) *SSHExecutor {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &SSHExecutor{
		host:        host,
		dialTimeout: dialTimeout,
		dial: func(host string, timeout time.Duration) (remoteRunner, error) {
			return sshutil.Dial(host, timeout)
		},
	}
}

// Run pings target from the vantage host.
func (e *SSHExecutor) Run(ctx context.Context, target string, wait time.Duration) (bool, string, error) {
	client, goos, err := e.connect()
	if err != nil {
		return false, "", err
	}

	args := PingArgs(goos, target, wait)
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = util.ShellQuote(a)
	}

	out, err := client.Output(ctx, DefaultCommand+" "+strings.Join(quoted, " "))
	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return false, string(out), nil
		}
		if ctx.Err() == nil {
			e.reset(client)
		}
		return false, string(out), err
	}
	return true, string(out), nil
}

// Close drops the shared connection.
func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// connect returns the shared client and its platform, dialing on first use.
// A platform that could not be detected is retried on the next call and
// treated as linux meanwhile.
func (e *SSHExecutor) connect() (remoteRunner, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		client, err := e.dial(e.host, e.dialTimeout)
		if err != nil {
			return nil, "", err
		}
		e.client = client
		e.goos = ""
	}

	if e.goos == "" {
		goos, ok := e.detectPlatform(e.client)
		if !ok {
			return e.client, "linux", nil
		}
		e.goos = goos
	}
	return e.client, e.goos, nil
}

// detectPlatform runs `uname -s` under its own deadline, independent of the
// probe that triggered the dial. A non-zero exit counts as detected linux.
func (e *SSHExecutor) detectPlatform(client remoteRunner) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), e.dialTimeout)
	defer cancel()

	out, err := client.Output(ctx, "uname -s")
	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return "linux", true
		}
		return "", false
	}
	return platformFromUname(string(out)), true
}

// reset closes client if it is still the shared one.
func (e *SSHExecutor) reset(client remoteRunner) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == client {
		_ = e.client.Close()
		e.client = nil
	}
}

// platformFromUname maps `uname -s` output to a GOOS-style name for PingArgs.
func platformFromUname(out string) string {
	switch strings.TrimSpace(out) {
	case "Darwin":
		return "darwin"
	case "FreeBSD":
		return "freebsd"
	case "OpenBSD":
		return "openbsd"
	case "NetBSD":
		return "netbsd"
	default:
		return "linux"
	}
}
