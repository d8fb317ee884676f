package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmoura/eventgate/internal/dbx"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/models"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/dmoura/eventgate/internal/repositories/checkins"
	"github.com/dmoura/eventgate/internal/repositories/events"
	"github.com/dmoura/eventgate/internal/repositories/subscriptions"
	"github.com/dmoura/eventgate/internal/repositories/users"
	"golang.org/x/sync/errgroup"
)

// DownloadResult counts the rows merged by one download run.
type DownloadResult struct {
	Events        int
	Users         int
	Subscriptions int
}

// UploadResult counts per-category outcomes of one upload run.
type UploadResult struct {
	UsersSynced         int
	UsersFailed         int
	SubscriptionsSynced int
	SubscriptionsFailed int
	CheckinsSynced      int
	CheckinsFailed      int
}

// SyncService reconciles the local store with the remote server.
type SyncService interface {
	// Download merges the canonical event, user and subscription
	// collections into the local store. All-or-nothing: any failure rolls
	// the whole merge back.
	Download(ctx context.Context, sess *Session) (DownloadResult, error)

	// Upload pushes locally-created records to the server in dependency
	// order with per-record durability. Individual record failures are
	// counted, not fatal.
	Upload(ctx context.Context, sess *Session) (UploadResult, error)
}

type syncService struct {
	db     *sql.DB
	client remote.Client
	log    logging.Logger
}

func NewSyncService(db *sql.DB, client remote.Client, log logging.Logger) SyncService {
	return &syncService{db: db, client: client, log: log}
}

func (s *syncService) Download(ctx context.Context, sess *Session) (DownloadResult, error) {
	var result DownloadResult

	if err := sess.validate(); err != nil {
		return result, err
	}

	var (
		remoteEvents []remote.Event
		remoteUsers  []remote.User
		remoteSubs   []remote.Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		remoteEvents, err = s.client.GetEvents(gctx, sess.Token)
		return err
	})
	g.Go(func() (err error) {
		remoteUsers, err = s.client.GetAllUsers(gctx, sess.Token)
		return err
	})
	g.Go(func() (err error) {
		remoteSubs, err = s.client.GetAllSubscriptions(gctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("download fetch failed: %w", err)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		eventRepo := events.NewSQLiteRepository(tx)
		userRepo := users.NewSQLiteRepository(tx)
		subRepo := subscriptions.NewSQLiteRepository(tx)

		for _, re := range remoteEvents {
			e := models.Event{ServerID: re.ID, Name: re.Name, StartsAt: re.StartsAt, Description: re.Description}
			if err := eventRepo.Upsert(ctx, &e); err != nil {
				return err
			}
			result.Events++
		}

		for _, ru := range remoteUsers {
			inserted, err := userRepo.InsertMirror(ctx, ru.ID, ru.Name, ru.Email)
			if err != nil {
				return err
			}
			if inserted {
				result.Users++
			}
		}

		idMap, err := buildReconciliationMap(ctx, userRepo)
		if err != nil {
			return err
		}

		for _, rs := range remoteSubs {
			userLocalID, ok := idMap.resolve(rs.UserID)
			if !ok {
				// orphan: no local mirror for this user, skip without failing
				s.log.Debug(ctx, "skipping orphan subscription",
					"subscription", rs.ID, "user", rs.UserID)
				continue
			}
			inserted, err := subRepo.InsertMirror(ctx, rs.ID, userLocalID, rs.EventID)
			if err != nil {
				return err
			}
			if inserted {
				result.Subscriptions++
			}
		}

		return nil
	})
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download merge failed: %w", err)
	}

	s.log.Info(ctx, "download finished",
		"events", result.Events, "users", result.Users, "subscriptions", result.Subscriptions)
	return result, nil
}

// compile-time interface checks for the repositories the sync paths rely on
var (
	_ users.Repository         = (*users.SQLiteRepository)(nil)
	_ events.Repository        = (*events.SQLiteRepository)(nil)
	_ subscriptions.Repository = (*subscriptions.SQLiteRepository)(nil)
	_ checkins.Repository      = (*checkins.SQLiteRepository)(nil)
)
