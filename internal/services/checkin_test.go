package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickCheckin_CreatesUserSubscriptionCheckin(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewCheckinService(db, nopLog(), nil)

	res, err := svc.QuickCheckin(context.Background(), QuickCheckinRequest{
		Name: "Walk Up", Email: "walkup@example.org", EventServerID: 100,
	})
	require.NoError(t, err)

	assert.Positive(t, res.UserLocalID)
	assert.Positive(t, res.SubscriptionLocalID)
	assert.Positive(t, res.CheckinLocalID)
	assert.NotEmpty(t, res.TemporarySecret, "a new user gets a secret, shown once")
	assert.False(t, res.AlreadyCheckedIn)

	assert.Equal(t, 1, countRows(t, db, "users"))
	assert.Equal(t, 1, countRows(t, db, "subscriptions"))
	assert.Equal(t, 1, countRows(t, db, "checkins"))

	// everything created offline starts unsynced
	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE synced = 0 AND server_id IS NULL`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestQuickCheckin_Idempotent(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewCheckinService(db, nopLog(), nil)
	ctx := context.Background()

	req := QuickCheckinRequest{Name: "Walk Up", Email: "walkup@example.org", EventServerID: 100}

	first, err := svc.QuickCheckin(ctx, req)
	require.NoError(t, err)

	second, err := svc.QuickCheckin(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.UserLocalID, second.UserLocalID)
	assert.Equal(t, first.SubscriptionLocalID, second.SubscriptionLocalID)
	assert.Equal(t, first.CheckinLocalID, second.CheckinLocalID)
	assert.True(t, second.AlreadyCheckedIn)
	assert.Empty(t, second.TemporarySecret, "a second secret is never issued")

	assert.Equal(t, 1, countRows(t, db, "users"))
	assert.Equal(t, 1, countRows(t, db, "subscriptions"))
	assert.Equal(t, 1, countRows(t, db, "checkins"))
}

func TestQuickCheckin_ExistingUserGetsNoSecret(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	_, err := db.Exec(`INSERT INTO users (name, email, secret) VALUES ('Ana', 'ana@example.org', 'hers')`)
	require.NoError(t, err)

	svc := NewCheckinService(db, nopLog(), nil)
	res, err := svc.QuickCheckin(context.Background(), QuickCheckinRequest{
		Name: "Ana", Email: "ana@example.org", EventServerID: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, res.TemporarySecret)

	var secret string
	require.NoError(t, db.QueryRow(`SELECT secret FROM users WHERE email = 'ana@example.org'`).Scan(&secret))
	assert.Equal(t, "hers", secret, "existing secret untouched")
}

func TestQuickCheckin_UnknownEventRejected(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db, nopLog(), nil)

	_, err := svc.QuickCheckin(context.Background(), QuickCheckinRequest{
		Name: "X", Email: "x@example.org", EventServerID: 42,
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, countRows(t, db, "users"), "nothing persists on failure")
}

func TestQuickCheckin_InputValidation(t *testing.T) {
	svc := NewCheckinService(setupDB(t), nopLog(), nil)
	ctx := context.Background()

	cases := []QuickCheckinRequest{
		{Name: "", Email: "a@b.c", EventServerID: 1},
		{Name: "A", Email: "not-an-email", EventServerID: 1},
		{Name: "A", Email: "a@b.c", EventServerID: 0},
	}
	for _, req := range cases {
		_, err := svc.QuickCheckin(ctx, req)
		require.ErrorIs(t, err, common.ErrValidation)
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	calls  []string
	signal chan struct{}
}

func (n *recordingNotifier) CheckinConfirmed(ctx context.Context, email, eventName string) {
	n.mu.Lock()
	n.calls = append(n.calls, email+"/"+eventName)
	n.mu.Unlock()
	n.signal <- struct{}{}
}

func TestQuickCheckin_NotifiesOnFirstCheckinOnly(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	notifier := &recordingNotifier{signal: make(chan struct{}, 2)}
	svc := NewCheckinService(db, nopLog(), notifier)
	ctx := context.Background()

	req := QuickCheckinRequest{Name: "Walk Up", Email: "walkup@example.org", EventServerID: 100}

	_, err := svc.QuickCheckin(ctx, req)
	require.NoError(t, err)

	select {
	case <-notifier.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}

	_, err = svc.QuickCheckin(ctx, req)
	require.NoError(t, err)

	select {
	case <-notifier.signal:
		t.Fatal("repeat check-in must not notify again")
	case <-time.After(100 * time.Millisecond):
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"walkup@example.org/Conf"}, notifier.calls)
}

func TestCancelCheckin_DeletesCheckinOnly(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewCheckinService(db, nopLog(), nil)
	ctx := context.Background()

	res, err := svc.QuickCheckin(ctx, QuickCheckinRequest{Name: "A", Email: "a@example.org", EventServerID: 100})
	require.NoError(t, err)

	require.NoError(t, svc.CancelCheckin(ctx, res.SubscriptionLocalID))
	assert.Zero(t, countRows(t, db, "checkins"))
	assert.Equal(t, 1, countRows(t, db, "subscriptions"))

	// cancelling again is a no-op
	require.NoError(t, svc.CancelCheckin(ctx, res.SubscriptionLocalID))
}

func TestCancelSubscription_DeletesCheckinThenSubscription(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewCheckinService(db, nopLog(), nil)
	ctx := context.Background()

	res, err := svc.QuickCheckin(ctx, QuickCheckinRequest{Name: "A", Email: "a@example.org", EventServerID: 100})
	require.NoError(t, err)

	require.NoError(t, svc.CancelSubscription(ctx, res.SubscriptionLocalID))
	assert.Zero(t, countRows(t, db, "checkins"))
	assert.Zero(t, countRows(t, db, "subscriptions"))
	assert.Equal(t, 1, countRows(t, db, "users"), "the participant remains")

	require.ErrorIs(t, svc.CancelSubscription(ctx, res.SubscriptionLocalID), common.ErrNotFound)
}
