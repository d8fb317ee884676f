// Command eventgated runs the local HTTP bridge: the same command surface as
// the interactive terminal, exposed as JSON endpoints for kiosk front-ends.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoura/eventgate/internal/api"
	"github.com/dmoura/eventgate/internal/config"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/notify"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/dmoura/eventgate/internal/services"
	"github.com/dmoura/eventgate/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	client, err := remote.NewHTTPClient(cfg.ServerURL, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var notifier services.CheckinNotifier
	if cfg.NotifierURL != "" {
		notifier = notify.New(cfg.NotifierURL, logger)
	}

	reg := prometheus.NewRegistry()
	srv := api.NewServer(
		services.NewAuthService(client, logger),
		services.NewSyncService(db, client, logger),
		services.NewLocalService(db, logger),
		services.NewCheckinService(db, logger, notifier),
		reg,
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "bridge listening", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%v", err)
	}
}
