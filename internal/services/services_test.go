package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  server_id INTEGER UNIQUE,
  name      TEXT NOT NULL,
  email     TEXT NOT NULL UNIQUE,
  secret    TEXT NOT NULL DEFAULT '',
  synced    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS events (
  server_id   INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  starts_at   TIMESTAMP NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subscriptions (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  server_id       INTEGER UNIQUE,
  user_id         INTEGER NOT NULL REFERENCES users (id),
  event_server_id INTEGER NOT NULL REFERENCES events (server_id),
  synced          INTEGER NOT NULL DEFAULT 0,
  UNIQUE (user_id, event_server_id)
);

CREATE TABLE IF NOT EXISTS checkins (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  subscription_id INTEGER NOT NULL UNIQUE REFERENCES subscriptions (id),
  synced          INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func seedEvent(t *testing.T, db *sql.DB, serverID int64, name string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO events (server_id, name, starts_at) VALUES (?, ?, '2026-09-12 19:00:00')`,
		serverID, name)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func adminSession() *Session {
	return &Session{Token: "tok", User: remote.User{ID: 1, Name: "Op", Email: "op@example.org", Role: "admin"}}
}

// fakeClient implements remote.Client with configurable behavior. The
// zero value answers every call successfully with empty data.
type fakeClient struct {
	loginFn           func(username, password string) (string, remote.User, error)
	pingErr           error
	events            []remote.Event
	users             []remote.User
	subs              []remote.Subscription
	eventsErr         error
	usersErr          error
	subsErr           error
	createUserFn      func(name, email, secret string) (remote.User, error)
	getUserByEmailFn  func(email string) (remote.User, error)
	createSubFn       func(eventID, userID int64) (remote.Subscription, error)
	registerCheckinFn func(subscriptionID int64) error

	createUserCalls int
	createSubCalls  int
	checkinCalls    int
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, remote.User, error) {
	if f.loginFn != nil {
		return f.loginFn(username, password)
	}
	return "tok", remote.User{ID: 1, Name: "Op", Email: username, Role: "admin"}, nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) GetEvents(ctx context.Context, token string) ([]remote.Event, error) {
	return f.events, f.eventsErr
}

func (f *fakeClient) GetAllUsers(ctx context.Context, token string) ([]remote.User, error) {
	return f.users, f.usersErr
}

func (f *fakeClient) GetAllSubscriptions(ctx context.Context, token string) ([]remote.Subscription, error) {
	return f.subs, f.subsErr
}

func (f *fakeClient) CreateUser(ctx context.Context, token, name, email, secret string) (remote.User, error) {
	f.createUserCalls++
	if f.createUserFn != nil {
		return f.createUserFn(name, email, secret)
	}
	return remote.User{ID: int64(1000 + f.createUserCalls), Name: name, Email: email}, nil
}

func (f *fakeClient) GetUserByEmail(ctx context.Context, token, email string) (remote.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(email)
	}
	return remote.User{}, nil
}

func (f *fakeClient) CreateSubscription(ctx context.Context, token string, eventID, userID int64) (remote.Subscription, error) {
	f.createSubCalls++
	if f.createSubFn != nil {
		return f.createSubFn(eventID, userID)
	}
	return remote.Subscription{ID: int64(2000 + f.createSubCalls), UserID: userID, EventID: eventID}, nil
}

func (f *fakeClient) RegisterCheckin(ctx context.Context, token string, subscriptionID int64) error {
	f.checkinCalls++
	if f.registerCheckinFn != nil {
		return f.registerCheckinFn(subscriptionID)
	}
	return nil
}

var _ remote.Client = (*fakeClient)(nil)

func nopLog() logging.Logger { return logging.NewNopLogger() }
