package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmoura/eventgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the remote event server
//	-d string   path of the local SQLite store
//	-l string   listen address for the local HTTP bridge
//	-n string   notifier side-service URL
//	-p int      presence interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-l", "-n", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the remote event server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address for the local HTTP bridge")
	fs.StringVar(&cfg.NotifierURL, "n", cfg.NotifierURL, "notifier side-service URL (empty disables)")
	presenceInterval := fs.Int("p", int(cfg.PresenceInterval.Seconds()), "presence interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PresenceInterval = time.Duration(*presenceInterval) * time.Second
}
