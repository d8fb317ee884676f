// Package cli implements the interactive operator console for the check-in
// terminal.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/dmoura/eventgate/internal/config"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/notify"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/dmoura/eventgate/internal/services"
	"github.com/dmoura/eventgate/internal/store"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App holds the console state: the wired services, the operator session and
// the current connectivity mode.
type App struct {
	config  *config.Config
	auth    services.AuthService
	sync    services.SyncService
	local   services.LocalService
	checkin services.CheckinService
	session *services.Session
	log     logging.Logger
	Mode    Mode
	reader  *bufio.Reader

	db *sql.DB
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	client, err := remote.NewHTTPClient(c.ServerURL, nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	var notifier services.CheckinNotifier
	if c.NotifierURL != "" {
		notifier = notify.New(c.NotifierURL, log)
	}

	return &App{
		config:  c,
		auth:    services.NewAuthService(client, log),
		sync:    services.NewSyncService(db, client, log),
		local:   services.NewLocalService(db, log),
		checkin: services.NewCheckinService(db, log, notifier),
		log:     log,
		Mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
		db:      db,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	go a.StartOnlineStatusWatcher(ctx, a.config.PresenceInterval)

	printlnFn("eventgate terminal (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) status() string {
	who := "not logged in"
	if a.isLoggedIn() {
		who = a.session.User.Email
	}
	return who + " | " + string(a.Mode)
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		printlnFn("Switched to", string(mode), "mode")
	}
}

// StartOnlineStatusWatcher probes the server on a ticker and flips the mode
// banner when reachability changes.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(probeCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
