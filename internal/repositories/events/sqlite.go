package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/dbx"
	"github.com/dmoura/eventgate/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert applies remote-wins semantics: the terminal never edits events, so
// remote fields unconditionally replace local ones.
func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (server_id, name, starts_at, description) VALUES (?, ?, ?, ?)
		 ON CONFLICT(server_id) DO UPDATE SET
		   name = excluded.name,
		   starts_at = excluded.starts_at,
		   description = excluded.description`,
		e.ServerID, e.Name, e.StartsAt, e.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, serverID int64) (*models.Event, error) {
	e := &models.Event{}
	err := r.db.QueryRowContext(ctx,
		`SELECT server_id, name, starts_at, description FROM events WHERE server_id = ?`,
		serverID).Scan(&e.ServerID, &e.Name, &e.StartsAt, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT server_id, name, starts_at, description FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ServerID, &e.Name, &e.StartsAt, &e.Description); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
