// Package common defines shared sentinel errors used across the terminal's
// storage, sync and command layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation, local (duplicate email,
	// duplicate server id) or remote (409 from the server). Recoverable:
	// upload adopts the existing remote record, download absorbs it.
	ErrConflict = errors.New("conflict")

	// ErrStorage marks a local store fault (I/O, corruption). Fatal to the
	// current command; the surrounding transaction is rolled back.
	ErrStorage = errors.New("storage fault")

	// Command boundary errors.
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable marks an unreachable or timed-out remote server.
	ErrUnavailable = errors.New("server unavailable")
)
