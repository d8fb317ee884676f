package subscriptions

import (
	"context"

	"github.com/dmoura/eventgate/internal/models"
)

// Pending is an unsynced subscription joined with its owner's server id,
// ready for upload.
type Pending struct {
	models.Subscription
	UserServerID int64
}

// Repository describes persistence operations for subscriptions.
type Repository interface {
	// Insert stores a locally-created, unsynced subscription. A duplicate
	// (user, event) pair yields common.ErrConflict.
	Insert(ctx context.Context, userLocalID, eventServerID int64) (int64, error)

	// InsertMirror stores a server-originated subscription, synced from
	// birth. When a row with that server id — or that (user, event) pair —
	// already exists, local fields are left exactly as they are. Reports
	// whether a row was inserted.
	InsertMirror(ctx context.Context, serverID, userLocalID, eventServerID int64) (bool, error)

	// GetByID returns the subscription with the given local id.
	GetByID(ctx context.Context, localID int64) (*models.Subscription, error)

	// GetByUserAndEvent returns the subscription for the pair, or
	// common.ErrNotFound.
	GetByUserAndEvent(ctx context.Context, userLocalID, eventServerID int64) (*models.Subscription, error)

	// ListUnsyncedEligible returns unsynced subscriptions whose owning user
	// already carries a server id. Subscriptions gated behind an unsynced
	// user are not returned.
	ListUnsyncedEligible(ctx context.Context) ([]Pending, error)

	// MarkSynced flips the subscription to synced and records the
	// server-assigned id. The transition happens at most once per row.
	MarkSynced(ctx context.Context, localID, serverID int64) error

	// Delete removes the subscription row. Its check-in must be deleted
	// first; the foreign key enforces the ordering.
	Delete(ctx context.Context, localID int64) error

	// ListViews returns all subscriptions joined with participant and event
	// names and their check-in state.
	ListViews(ctx context.Context) ([]models.SubscriptionView, error)
}
