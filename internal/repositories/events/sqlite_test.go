package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE events (
  server_id   INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  starts_at   TIMESTAMP NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)
	return db
}

func TestUpsert_RemoteWins(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, &models.Event{ServerID: 1, Name: "GopherMeet", StartsAt: start}))

	// remote edit lands wholesale on the next download
	require.NoError(t, r.Upsert(ctx, &models.Event{
		ServerID: 1, Name: "GopherMeet 2026", StartsAt: start.Add(time.Hour), Description: "moved",
	}))

	got, err := r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "GopherMeet 2026", got.Name)
	assert.Equal(t, "moved", got.Description)
	assert.Equal(t, start.Add(time.Hour), got.StartsAt.UTC())
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), 999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_OrderedByStart(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, &models.Event{ServerID: 2, Name: "Late", StartsAt: base.Add(2 * time.Hour)}))
	require.NoError(t, r.Upsert(ctx, &models.Event{ServerID: 3, Name: "Early", StartsAt: base}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Early", got[0].Name)
	assert.Equal(t, "Late", got[1].Name)
}
