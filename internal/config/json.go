package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmoura/eventgate/internal/flagx"
	"github.com/dmoura/eventgate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerURL        string         `json:"server_url"`
	DatabasePath     string         `json:"database_path"`
	ListenAddr       string         `json:"listen_addr"`
	NotifierURL      string         `json:"notifier_url"`
	PresenceInterval timex.Duration `json:"presence_interval"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Missing flag means no JSON stage. Only fields present in
// the file override the defaults. Read or unmarshal errors panic; config is
// resolved once at startup and a broken file should stop the process.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.NotifierURL != "" {
		cfg.NotifierURL = jc.NotifierURL
	}
	if jc.PresenceInterval.Duration != 0 {
		cfg.PresenceInterval = time.Duration(jc.PresenceInterval.Duration)
	}
}
