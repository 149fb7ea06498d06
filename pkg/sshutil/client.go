// Package sshutil dials the remote vantage host that pingstrip can probe from.
//
// Connection settings for an alias are resolved from ~/.ssh/config, auth
// comes from the SSH agent or the usual key files, and host keys are checked
// against ~/.ssh/known_hosts unless StrictHostKeyChecking is turned off.
package sshutil

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Client wraps an SSH connection with the alias it was dialed with.
type Client struct {
	*ssh.Client
	Host    string // The original host/alias used to connect
	Address string // The resolved address (host:port)
}

// Dial establishes an SSH connection to host. host may be an SSH config
// alias, a hostname, user@hostname, or hostname:port.
func Dial(host string, timeout time.Duration) (*Client, error) {
	settings := resolveSettings(host, sshConfigPath())

	cfg, err := clientConfig(settings, timeout)
	if err != nil {
		return nil, err
	}

	address := settings.address()
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach vantage host '%s' at %s", host, address),
			"Make sure the host is up and SSH is listening")
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, cfg)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			"Try connecting manually first: ssh "+host)
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// Output runs cmd in a fresh session and returns its stdout.
// Cancelling ctx closes the session, which unblocks the remote command.
func (c *Client) Output(ctx context.Context, cmd string) ([]byte, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var stdout bytes.Buffer
	session.Stdout = &stdout

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		_ = session.Close()
		return nil, ctx.Err()
	case err := <-done:
		return stdout.Bytes(), err
	}
}
