package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/dbx"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/models"
	"github.com/dmoura/eventgate/internal/repositories/checkins"
	"github.com/dmoura/eventgate/internal/repositories/events"
	"github.com/dmoura/eventgate/internal/repositories/subscriptions"
	"github.com/dmoura/eventgate/internal/repositories/users"
	"github.com/google/uuid"
)

// QuickCheckinRequest is the typed input for a walk-up registration.
type QuickCheckinRequest struct {
	Name          string
	Email         string
	EventServerID int64
}

func (r QuickCheckinRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if r.EventServerID <= 0 {
		return fmt.Errorf("%w: event is required", common.ErrValidation)
	}
	return nil
}

// QuickCheckinResult reports the rows now backing the (email, event) pair.
// TemporarySecret is set only when this invocation created the user; it is
// shown once for out-of-band delivery and never issued again.
type QuickCheckinResult struct {
	UserLocalID         int64
	SubscriptionLocalID int64
	CheckinLocalID      int64
	TemporarySecret     string
	AlreadyCheckedIn    bool
}

// CheckinNotifier receives a confirmation signal after a successful quick
// check-in. Implementations must tolerate being called concurrently.
type CheckinNotifier interface {
	CheckinConfirmed(ctx context.Context, email, eventName string)
}

// CheckinService performs walk-up registrations and cancellations, entirely
// against the local store.
type CheckinService interface {
	// QuickCheckin finds-or-creates the user, subscription and check-in for
	// the pair in one transaction. Idempotent: repeating it changes nothing
	// and issues no second secret.
	QuickCheckin(ctx context.Context, req QuickCheckinRequest) (QuickCheckinResult, error)

	// CancelCheckin deletes the subscription's check-in row only.
	CancelCheckin(ctx context.Context, subscriptionLocalID int64) error

	// CancelSubscription deletes the check-in, then the subscription.
	CancelSubscription(ctx context.Context, subscriptionLocalID int64) error
}

type checkinService struct {
	db       *sql.DB
	log      logging.Logger
	notifier CheckinNotifier
}

// NewCheckinService constructs a CheckinService. notifier may be nil to
// disable confirmation notifications.
func NewCheckinService(db *sql.DB, log logging.Logger, notifier CheckinNotifier) CheckinService {
	return &checkinService{db: db, log: log, notifier: notifier}
}

func (s *checkinService) QuickCheckin(ctx context.Context, req QuickCheckinRequest) (QuickCheckinResult, error) {
	var result QuickCheckinResult

	if err := req.validate(); err != nil {
		return result, err
	}

	var eventName string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		eventRepo := events.NewSQLiteRepository(tx)
		userRepo := users.NewSQLiteRepository(tx)
		subRepo := subscriptions.NewSQLiteRepository(tx)
		checkRepo := checkins.NewSQLiteRepository(tx)

		event, err := eventRepo.Get(ctx, req.EventServerID)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: unknown event %d", common.ErrValidation, req.EventServerID)
		}
		if err != nil {
			return err
		}
		eventName = event.Name

		user, err := userRepo.GetByEmail(ctx, req.Email)
		switch {
		case errors.Is(err, common.ErrNotFound):
			secret := uuid.NewString()
			localID, err := userRepo.Insert(ctx, &models.User{
				Name: strings.TrimSpace(req.Name), Email: req.Email, Secret: secret,
			})
			if err != nil {
				return err
			}
			result.UserLocalID = localID
			result.TemporarySecret = secret
		case err != nil:
			return err
		default:
			result.UserLocalID = user.LocalID
		}

		sub, err := subRepo.GetByUserAndEvent(ctx, result.UserLocalID, req.EventServerID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			localID, err := subRepo.Insert(ctx, result.UserLocalID, req.EventServerID)
			if err != nil {
				return err
			}
			result.SubscriptionLocalID = localID
		case err != nil:
			return err
		default:
			result.SubscriptionLocalID = sub.LocalID
		}

		check, err := checkRepo.GetBySubscription(ctx, result.SubscriptionLocalID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			localID, err := checkRepo.Insert(ctx, result.SubscriptionLocalID)
			if err != nil {
				return err
			}
			result.CheckinLocalID = localID
		case err != nil:
			return err
		default:
			result.CheckinLocalID = check.LocalID
			result.AlreadyCheckedIn = true
		}

		return nil
	})
	if err != nil {
		return QuickCheckinResult{}, fmt.Errorf("quick check-in failed: %w", err)
	}

	s.log.Info(ctx, "quick check-in done",
		"email", req.Email, "event", req.EventServerID, "repeat", result.AlreadyCheckedIn)

	if s.notifier != nil && !result.AlreadyCheckedIn {
		// fire and forget; the notifier applies its own timeout and retry
		go s.notifier.CheckinConfirmed(context.WithoutCancel(ctx), req.Email, eventName)
	}

	return result, nil
}

func (s *checkinService) CancelCheckin(ctx context.Context, subscriptionLocalID int64) error {
	if subscriptionLocalID <= 0 {
		return fmt.Errorf("%w: subscription is required", common.ErrValidation)
	}
	err := checkins.NewSQLiteRepository(s.db).DeleteBySubscription(ctx, subscriptionLocalID)
	if errors.Is(err, common.ErrNotFound) {
		// cancelling an absent check-in is a no-op
		return nil
	}
	return err
}

func (s *checkinService) CancelSubscription(ctx context.Context, subscriptionLocalID int64) error {
	if subscriptionLocalID <= 0 {
		return fmt.Errorf("%w: subscription is required", common.ErrValidation)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := checkins.NewSQLiteRepository(tx).DeleteBySubscription(ctx, subscriptionLocalID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return subscriptions.NewSQLiteRepository(tx).Delete(ctx, subscriptionLocalID)
	})
}
