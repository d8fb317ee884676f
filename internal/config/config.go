// Package config loads runtime settings for the check-in terminal.
package config

import "time"

// Config holds runtime settings shared by the REPL terminal and the local
// HTTP bridge.
//
// Fields:
//   - ServerURL: base URL of the remote event server.
//   - DatabasePath: path of the local SQLite store file.
//   - ListenAddr: address the local HTTP bridge binds to.
//   - NotifierURL: base URL of the confirmation notifier side-service;
//     empty disables notifications.
//   - PresenceInterval: how often the terminal signals its presence to the
//     server (and probes reachability).
type Config struct {
	ServerURL        string
	DatabasePath     string
	ListenAddr       string
	NotifierURL      string
	PresenceInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "eventgate.db"
	c.ListenAddr = "127.0.0.1:7423"
	c.NotifierURL = ""
	c.PresenceInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
