// Package remote consumes the authoritative event server's HTTP façade.
// The server owns all canonical data; this package only moves plain records
// keyed by server-assigned identifiers.
package remote

import (
	"context"
	"time"
)

// User is a participant record as the server sees it.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Event is a canonical event record.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartsAt    time.Time `json:"starts_at"`
	Description string    `json:"description"`
}

// Subscription links a server user to a server event.
type Subscription struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"user_id"`
	EventID int64 `json:"event_id"`
}

// Client is the remote server contract consumed by the terminal. The bearer
// token is passed explicitly on every call; no credential state is held
// behind this interface.
//
// Conflict responses (duplicate email, duplicate subscription, repeated
// check-in) map to common.ErrConflict and are distinguishable from other
// failures; unreachable/timeout conditions map to common.ErrUnavailable.
type Client interface {
	// Login authenticates and returns the bearer token plus the
	// authenticated user record.
	Login(ctx context.Context, username, password string) (string, User, error)

	// Ping probes server reachability.
	Ping(ctx context.Context) error

	// Admin-scoped bulk reads.
	GetEvents(ctx context.Context, token string) ([]Event, error)
	GetAllUsers(ctx context.Context, token string) ([]User, error)
	GetAllSubscriptions(ctx context.Context, token string) ([]Subscription, error)

	// CreateUser registers a participant; the secret travels only in this
	// call and is never read back.
	CreateUser(ctx context.Context, token, name, email, secret string) (User, error)

	// GetUserByEmail looks a participant up, used for conflict recovery.
	GetUserByEmail(ctx context.Context, token, email string) (User, error)

	// CreateSubscription registers a user for an event.
	CreateSubscription(ctx context.Context, token string, eventID, userID int64) (Subscription, error)

	// RegisterCheckin marks attendance for a subscription.
	RegisterCheckin(ctx context.Context, token string, subscriptionID int64) error
}
