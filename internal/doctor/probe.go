package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/pkg/sshutil"
)

// PingCommandCheck verifies the local ping binary is on PATH.
type PingCommandCheck struct {
	// Command defaults to "ping".
	Command string
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

func (c *PingCommandCheck) Name() string     { return "ping_command" }
func (c *PingCommandCheck) Category() string { return CategoryProbe }

func (c *PingCommandCheck) Run(ctx context.Context) CheckResult {
	name := c.Command
	if name == "" {
		name = probe.DefaultCommand
	}
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(name)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not found on PATH", name),
			Suggestion: "Install ping (iputils-ping on Debian/Ubuntu) or set ssh.host to probe remotely",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s found: %s", name, path),
	}
}

// VantageCheck dials the SSH vantage host.
type VantageCheck struct {
	Host        string
	DialTimeout time.Duration
	// Dial defaults to sshutil.Dial.
	Dial func(host string, timeout time.Duration) (string, func() error, error)
}

func (c *VantageCheck) Name() string     { return "ssh_vantage" }
func (c *VantageCheck) Category() string { return CategoryProbe }

func (c *VantageCheck) Run(ctx context.Context) CheckResult {
	dial := c.Dial
	if dial == nil {
		dial = dialSSH
	}

	address, closeFn, err := dial(c.Host, c.DialTimeout)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't connect to vantage host %s: %v", c.Host, err),
			Suggestion: "Check that the host is reachable: ssh " + c.Host,
		}
	}
	_ = closeFn()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Connected to vantage host %s (%s)", c.Host, address),
	}
}

func dialSSH(host string, timeout time.Duration) (string, func() error, error) {
	client, err := sshutil.Dial(host, timeout)
	if err != nil {
		return "", nil, err
	}
	return client.Address, client.Close, nil
}

// TargetCheck sends one probe to the target.
type TargetCheck struct {
	Target  string
	Timeout time.Duration
	Prober  interface {
		Probe(ctx context.Context, target string, timeout time.Duration) probe.Measurement
	}
}

func (c *TargetCheck) Name() string     { return "target_reply" }
func (c *TargetCheck) Category() string { return CategoryProbe }

func (c *TargetCheck) Run(ctx context.Context) CheckResult {
	m := c.Prober.Probe(ctx, c.Target, c.Timeout)
	ms, ok := m.Milliseconds()
	if !ok {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("No reply from %s within %s", c.Target, c.Timeout),
			Suggestion: "Check the target address, or whether ICMP is blocked on this network",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s answered in %.3f ms", c.Target, ms),
	}
}
