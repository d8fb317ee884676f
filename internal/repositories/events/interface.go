package events

import (
	"context"

	"github.com/dmoura/eventgate/internal/models"
)

// Repository describes persistence operations for event mirrors. Events are
// fully owned by the server; the terminal only receives them on download.
type Repository interface {
	// Upsert inserts the event or, when a row with that server id already
	// exists, overwrites every local field with the remote ones.
	Upsert(ctx context.Context, e *models.Event) error

	// Get returns the event with the given server id, or common.ErrNotFound.
	Get(ctx context.Context, serverID int64) (*models.Event, error)

	// List returns all mirrored events ordered by start time.
	List(ctx context.Context) ([]models.Event, error)
}
