package users

import (
	"context"

	"github.com/dmoura/eventgate/internal/models"
)

// Repository describes persistence operations for participants.
// Implementations are backed by the local SQLite store and may be bound to
// either the database or an open transaction.
type Repository interface {
	// Insert stores a locally-created, unsynced user and returns its local id.
	// A duplicate email yields common.ErrConflict.
	Insert(ctx context.Context, u *models.User) (int64, error)

	// InsertMirror stores a server-originated user (no secret, synced from
	// birth). It does nothing when a row with that server id — or that
	// email — already exists, and reports whether a row was inserted.
	InsertMirror(ctx context.Context, serverID int64, name, email string) (bool, error)

	// GetByEmail returns the user with the given email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given local id, or common.ErrNotFound.
	GetByID(ctx context.Context, localID int64) (*models.User, error)

	// ListUnsynced returns users still awaiting upload.
	ListUnsynced(ctx context.Context) ([]models.User, error)

	// MarkSynced flips the user to synced and records the server-assigned id.
	// The transition happens at most once per row.
	MarkSynced(ctx context.Context, localID, serverID int64) error

	// ServerIDPairs returns the remote-id → local-id mapping for every user
	// currently carrying a server id.
	ServerIDPairs(ctx context.Context) (map[int64]int64, error)

	// List returns all users, without secret material.
	List(ctx context.Context) ([]models.User, error)
}
