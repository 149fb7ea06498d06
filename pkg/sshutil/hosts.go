package sshutil

import (
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry is a concrete Host alias from an SSH config file.
type HostEntry struct {
	Alias    string
	Hostname string
	User     string
	Port     string
}

// Description returns a short label for pickers, e.g.
// "10.0.0.5, user: deploy, port: 2222". Falls back to the alias.
func (h HostEntry) Description() string {
	var parts []string
	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}
	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}
	if h.Port != "" && h.Port != "22" {
		parts = append(parts, "port: "+h.Port)
	}
	if len(parts) == 0 {
		return h.Alias
	}
	return strings.Join(parts, ", ")
}

// Hosts lists the aliases in ~/.ssh/config that could serve as a vantage
// host. A missing file yields no hosts and no error.
func Hosts() ([]HostEntry, error) {
	return HostsFromFile(sshConfigPath())
}

// HostsFromFile lists the concrete aliases in the SSH config at path, sorted.
// Wildcard patterns are skipped.
func HostsFromFile(path string) ([]HostEntry, error) {
	content, err := readConfigBeforeMatch(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []HostEntry
	seen := make(map[string]bool)
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})
	return hosts, nil
}
