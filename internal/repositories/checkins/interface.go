package checkins

import (
	"context"

	"github.com/dmoura/eventgate/internal/models"
)

// Pending is an unsynced check-in joined with its subscription's server id,
// ready for upload.
type Pending struct {
	models.Checkin
	SubscriptionServerID int64
}

// Repository describes persistence operations for check-ins.
type Repository interface {
	// Insert stores an unsynced check-in for the subscription. A second
	// check-in for the same subscription yields common.ErrConflict.
	Insert(ctx context.Context, subscriptionLocalID int64) (int64, error)

	// GetBySubscription returns the check-in for the subscription, or
	// common.ErrNotFound.
	GetBySubscription(ctx context.Context, subscriptionLocalID int64) (*models.Checkin, error)

	// ListUnsyncedEligible returns unsynced check-ins whose subscription
	// already carries a server id.
	ListUnsyncedEligible(ctx context.Context) ([]Pending, error)

	// MarkSynced flips the check-in to synced, at most once per row.
	MarkSynced(ctx context.Context, localID int64) error

	// DeleteBySubscription removes the subscription's check-in, reporting
	// common.ErrNotFound when none exists.
	DeleteBySubscription(ctx context.Context, subscriptionLocalID int64) error

	// List returns all check-ins.
	List(ctx context.Context) ([]models.Checkin, error)
}
