package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/repositories/checkins"
	"github.com/dmoura/eventgate/internal/repositories/subscriptions"
	"github.com/dmoura/eventgate/internal/repositories/users"
)

// Upload pushes unsynced records in dependency order: users first, then
// subscriptions whose user is known server-side, then check-ins whose
// subscription is. Each record's "mark synced" write commits on its own,
// since the remote side-effect has already happened and cannot be joined
// into a local transaction. One bad record never blocks the batch; whatever
// failed is retried on the next run.
func (s *syncService) Upload(ctx context.Context, sess *Session) (UploadResult, error) {
	var result UploadResult

	if err := sess.validate(); err != nil {
		return result, err
	}

	userRepo := users.NewSQLiteRepository(s.db)
	subRepo := subscriptions.NewSQLiteRepository(s.db)
	checkRepo := checkins.NewSQLiteRepository(s.db)

	pendingUsers, err := userRepo.ListUnsynced(ctx)
	if err != nil {
		return result, fmt.Errorf("upload: %w", err)
	}
	for _, u := range pendingUsers {
		serverID, err := s.pushUser(ctx, sess, u.Name, u.Email, u.Secret)
		if err != nil {
			s.log.Warn(ctx, "user upload failed", "email", u.Email, "err", err)
			result.UsersFailed++
			continue
		}
		if err := userRepo.MarkSynced(ctx, u.LocalID, serverID); err != nil {
			s.log.Error(ctx, "failed to record user sync", "email", u.Email, "err", err)
			result.UsersFailed++
			continue
		}
		result.UsersSynced++
	}

	pendingSubs, err := subRepo.ListUnsyncedEligible(ctx)
	if err != nil {
		return result, fmt.Errorf("upload: %w", err)
	}
	for _, p := range pendingSubs {
		created, err := s.client.CreateSubscription(ctx, sess.Token, p.EventServerID, p.UserServerID)
		if err != nil {
			s.log.Warn(ctx, "subscription upload failed", "subscription", p.LocalID, "err", err)
			result.SubscriptionsFailed++
			continue
		}
		if err := subRepo.MarkSynced(ctx, p.LocalID, created.ID); err != nil {
			s.log.Error(ctx, "failed to record subscription sync", "subscription", p.LocalID, "err", err)
			result.SubscriptionsFailed++
			continue
		}
		result.SubscriptionsSynced++
	}

	pendingChecks, err := checkRepo.ListUnsyncedEligible(ctx)
	if err != nil {
		return result, fmt.Errorf("upload: %w", err)
	}
	for _, p := range pendingChecks {
		err := s.client.RegisterCheckin(ctx, sess.Token, p.SubscriptionServerID)
		// attendance is a boolean fact: "already checked in" is success
		if err != nil && !errors.Is(err, common.ErrConflict) {
			s.log.Warn(ctx, "checkin upload failed", "checkin", p.LocalID, "err", err)
			result.CheckinsFailed++
			continue
		}
		if err := checkRepo.MarkSynced(ctx, p.LocalID); err != nil {
			s.log.Error(ctx, "failed to record checkin sync", "checkin", p.LocalID, "err", err)
			result.CheckinsFailed++
			continue
		}
		result.CheckinsSynced++
	}

	s.log.Info(ctx, "upload finished",
		"users", result.UsersSynced, "subscriptions", result.SubscriptionsSynced,
		"checkins", result.CheckinsSynced,
		"failed", result.UsersFailed+result.SubscriptionsFailed+result.CheckinsFailed)
	return result, nil
}

// pushUser creates the user remotely. When the server reports the email as
// already registered, the existing remote identity is adopted instead of
// treating the record as failed.
func (s *syncService) pushUser(ctx context.Context, sess *Session, name, email, secret string) (int64, error) {
	created, err := s.client.CreateUser(ctx, sess.Token, name, email, secret)
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, common.ErrConflict) {
		return 0, err
	}

	existing, lookupErr := s.client.GetUserByEmail(ctx, sess.Token, email)
	if lookupErr != nil {
		return 0, fmt.Errorf("conflict recovery lookup failed: %w", lookupErr)
	}
	s.log.Info(ctx, "adopted existing remote user", "email", email, "server_id", existing.ID)
	return existing.ID, nil
}
