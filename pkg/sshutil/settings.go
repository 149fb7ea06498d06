package sshutil

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// settings holds resolved SSH connection parameters.
type settings struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

// address returns the host:port string for dialing.
func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSettings parses user@host:port and fills the gaps from the SSH
// config file at configPath. An explicit user in host beats the config.
func resolveSettings(host, configPath string) *settings {
	s := &settings{
		port: "22",
		user: currentUser(),
	}

	explicitUser := false
	if at := strings.Index(host, "@"); at != -1 {
		s.user = host[:at]
		host = host[at+1:]
		explicitUser = true
	}

	if colon := strings.LastIndex(host, ":"); colon != -1 && isPort(host[colon+1:]) {
		s.port = host[colon+1:]
		host = host[:colon]
	}
	s.hostname = host

	content, err := readConfigBeforeMatch(configPath)
	if err != nil {
		return s
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return s
	}

	if v, _ := cfg.Get(host, "HostName"); v != "" {
		s.hostname = v
	}
	if v, _ := cfg.Get(host, "Port"); v != "" {
		s.port = v
	}
	if v, _ := cfg.Get(host, "User"); v != "" && !explicitUser {
		s.user = v
	}
	if v, _ := cfg.Get(host, "IdentityFile"); v != "" {
		s.identityFile = expandPath(v)
	}
	return s
}

// readConfigBeforeMatch returns the SSH config up to the first Match block,
// which ssh_config cannot decode.
func readConfigBeforeMatch(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			lines = lines[:i]
			break
		}
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func sshConfigPath() string {
	return filepath.Join(homeDir(), ".ssh", "config")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
