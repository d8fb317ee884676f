// Package models defines the rows persisted in the terminal's local store.
//
// Every locally-owned entity carries the same reconciliation backbone: a
// local id assigned on insertion, a nullable server id assigned by the
// remote system once reconciled, and a synced flag. A row becomes synced
// exactly once, acquiring its server id atomically with the flag flip, and
// never re-enters the unsynced state.
package models

import (
	"database/sql"
	"time"
)

// User is a participant. Secret is local-only credential material: it is
// sent once in the remote creation call and never pulled down on download.
type User struct {
	LocalID  int64
	ServerID sql.NullInt64
	Name     string
	Email    string
	Secret   string
	Synced   bool
}

// Event is a read-only mirror of a server-owned event. Events have no
// independent local id; the terminal never creates or mutates them.
type Event struct {
	ServerID    int64
	Name        string
	StartsAt    time.Time
	Description string
}

// Subscription links a local User to a server Event.
type Subscription struct {
	LocalID       int64
	ServerID      sql.NullInt64
	UserLocalID   int64
	EventServerID int64
	Synced        bool
}

// Checkin marks attendance for a Subscription. Its sync eligibility is
// derived from the parent subscription's server id via join.
type Checkin struct {
	LocalID             int64
	SubscriptionLocalID int64
	Synced              bool
}

// SubscriptionView is a subscription joined with participant and event
// names, as shown on the terminal's local-data screen.
type SubscriptionView struct {
	LocalID       int64
	ServerID      sql.NullInt64
	UserName      string
	UserEmail     string
	EventServerID int64
	EventName     string
	Synced        bool
	CheckedIn     bool
}
