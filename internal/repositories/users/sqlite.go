package users

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

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, u *models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, secret, synced) VALUES (?, ?, ?, 0)`,
		u.Name, u.Email, u.Secret)
	if err != nil {
		if dbx.IsConstraint(err) {
			return 0, fmt.Errorf("%w: email already registered", common.ErrConflict)
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted user id: %w", err)
	}
	return id, nil
}

// InsertMirror absorbs conflicts instead of failing: a mirror that collides
// with an existing server id or email leaves the local row untouched, so a
// secret-bearing local record is never overwritten by download.
func (r *SQLiteRepository) InsertMirror(ctx context.Context, serverID int64, name, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (server_id, name, email, synced) VALUES (?, ?, ?, 1)
		 ON CONFLICT DO NOTHING`,
		serverID, name, email)
	if err != nil {
		return false, fmt.Errorf("failed to insert user mirror: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, server_id, name, email, secret, synced FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, localID int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, server_id, name, email, secret, synced FROM users WHERE id = ?`, localID)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.LocalID, &u.ServerID, &u.Name, &u.Email, &u.Secret, &u.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, server_id, name, email, secret, synced FROM users WHERE synced = 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.LocalID, &u.ServerID, &u.Name, &u.Email, &u.Secret, &u.Synced); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, serverID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET synced = 1, server_id = ? WHERE id = ? AND synced = 0`,
		serverID, localID)
	if err != nil {
		if dbx.IsConstraint(err) {
			return fmt.Errorf("%w: server id already mapped", common.ErrConflict)
		}
		return fmt.Errorf("failed to mark user synced: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *SQLiteRepository) ServerIDPairs(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT server_id, id FROM users WHERE server_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to select user id pairs: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]int64)
	for rows.Next() {
		var serverID, localID int64
		if err := rows.Scan(&serverID, &localID); err != nil {
			return nil, err
		}
		result[serverID] = localID
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, server_id, name, email, synced FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.LocalID, &u.ServerID, &u.Name, &u.Email, &u.Synced); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
