package services

import (
	"context"
	"testing"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Local(t *testing.T) {
	db := setupDB(t)
	svc := NewLocalService(db, nopLog())
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s3cret"})
	require.NoError(t, err)
	assert.Positive(t, id)

	var synced bool
	require.NoError(t, db.QueryRow(`SELECT synced FROM users WHERE id = ?`, id).Scan(&synced))
	assert.False(t, synced)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := NewLocalService(setupDB(t), nopLog())
	ctx := context.Background()

	cases := []CreateUserRequest{
		{Name: "", Email: "a@b.c", Secret: "s"},
		{Name: "  ", Email: "a@b.c", Secret: "s"},
		{Name: "A", Email: "nope", Secret: "s"},
		{Name: "A", Email: "a@b.c", Secret: ""},
	}
	for _, req := range cases {
		_, err := svc.CreateUser(ctx, req)
		require.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestCreateUser_DuplicateEmailConflicts(t *testing.T) {
	svc := NewLocalService(setupDB(t), nopLog())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "Other", Email: "ana@example.org", Secret: "s"})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestCreateSubscription_Local(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewLocalService(db, nopLog())
	ctx := context.Background()

	userID, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s"})
	require.NoError(t, err)

	subID, err := svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: userID, EventServerID: 100})
	require.NoError(t, err)
	assert.Positive(t, subID)

	// same pair again
	_, err = svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: userID, EventServerID: 100})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestCreateSubscription_UnknownReferences(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewLocalService(db, nopLog())
	ctx := context.Background()

	userID, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s"})
	require.NoError(t, err)

	_, err = svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: 999, EventServerID: 100})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: userID, EventServerID: 999})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateSubscription(ctx, CreateSubscriptionRequest{})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateCheckin_Local(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	svc := NewLocalService(db, nopLog())
	ctx := context.Background()

	userID, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s"})
	require.NoError(t, err)
	subID, err := svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: userID, EventServerID: 100})
	require.NoError(t, err)

	id, err := svc.CreateCheckin(ctx, CreateCheckinRequest{SubscriptionLocalID: subID})
	require.NoError(t, err)
	assert.Positive(t, id)

	// one check-in per subscription
	_, err = svc.CreateCheckin(ctx, CreateCheckinRequest{SubscriptionLocalID: subID})
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = svc.CreateCheckin(ctx, CreateCheckinRequest{SubscriptionLocalID: 999})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestFetchLocalData_Aggregates(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db, 100, "Conf")
	seedEvent(t, db, 101, "Hack Night")
	svc := NewLocalService(db, nopLog())
	ctx := context.Background()

	userID, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "ana@example.org", Secret: "s"})
	require.NoError(t, err)
	subID, err := svc.CreateSubscription(ctx, CreateSubscriptionRequest{UserLocalID: userID, EventServerID: 100})
	require.NoError(t, err)
	_, err = svc.CreateCheckin(ctx, CreateCheckinRequest{SubscriptionLocalID: subID})
	require.NoError(t, err)

	data, err := svc.FetchLocalData(ctx)
	require.NoError(t, err)

	require.Len(t, data.Users, 1)
	assert.Empty(t, data.Users[0].Secret, "listings never expose secrets")
	require.Len(t, data.Events, 2)
	assert.Equal(t, "Conf", data.Events[0].Name, "events ordered by start time")
	require.Len(t, data.Subscriptions, 1)
	assert.Equal(t, "Ana", data.Subscriptions[0].UserName)
	assert.True(t, data.Subscriptions[0].CheckedIn)
	require.Len(t, data.Checkins, 1)
}

func TestFetchLocalData_EmptyStore(t *testing.T) {
	svc := NewLocalService(setupDB(t), nopLog())

	data, err := svc.FetchLocalData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Users)
	assert.Empty(t, data.Events)
	assert.Empty(t, data.Subscriptions)
	assert.Empty(t, data.Checkins)
}
