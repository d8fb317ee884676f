package subscriptions

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

func (r *SQLiteRepository) Insert(ctx context.Context, userLocalID, eventServerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, event_server_id, synced) VALUES (?, ?, 0)`,
		userLocalID, eventServerID)
	if err != nil {
		if dbx.IsConstraint(err) {
			return 0, fmt.Errorf("%w: participant already subscribed to event", common.ErrConflict)
		}
		return 0, fmt.Errorf("failed to insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted subscription id: %w", err)
	}
	return id, nil
}

// InsertMirror does nothing when the row already exists. Once a subscription
// is present locally its fields stay as they are; a later download never
// changes it.
func (r *SQLiteRepository) InsertMirror(ctx context.Context, serverID, userLocalID, eventServerID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (server_id, user_id, event_server_id, synced) VALUES (?, ?, ?, 1)
		 ON CONFLICT DO NOTHING`,
		serverID, userLocalID, eventServerID)
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription mirror: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, localID int64) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, server_id, user_id, event_server_id, synced FROM subscriptions WHERE id = ?`,
		localID)
	return scanSubscription(row)
}

func (r *SQLiteRepository) GetByUserAndEvent(ctx context.Context, userLocalID, eventServerID int64) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, server_id, user_id, event_server_id, synced FROM subscriptions
		 WHERE user_id = ? AND event_server_id = ?`,
		userLocalID, eventServerID)
	return scanSubscription(row)
}

func scanSubscription(row *sql.Row) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := row.Scan(&s.LocalID, &s.ServerID, &s.UserLocalID, &s.EventServerID, &s.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListUnsyncedEligible(ctx context.Context) ([]Pending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.server_id, s.user_id, s.event_server_id, s.synced, u.server_id
		 FROM subscriptions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.synced = 0 AND u.server_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending subscriptions: %w", err)
	}
	defer rows.Close()

	var result []Pending
	for rows.Next() {
		var p Pending
		if err := rows.Scan(&p.LocalID, &p.ServerID, &p.UserLocalID, &p.EventServerID, &p.Synced, &p.UserServerID); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, serverID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET synced = 1, server_id = ? WHERE id = ? AND synced = 0`,
		serverID, localID)
	if err != nil {
		if dbx.IsConstraint(err) {
			return fmt.Errorf("%w: server id already mapped", common.ErrConflict)
		}
		return fmt.Errorf("failed to mark subscription synced: %w", err)
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

func (r *SQLiteRepository) Delete(ctx context.Context, localID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, localID)
	if err != nil {
		if dbx.IsConstraint(err) {
			return fmt.Errorf("%w: subscription still has a check-in", common.ErrConflict)
		}
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListViews(ctx context.Context) ([]models.SubscriptionView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.server_id, u.name, u.email, s.event_server_id, e.name, s.synced,
		        c.id IS NOT NULL
		 FROM subscriptions s
		 JOIN users u ON u.id = s.user_id
		 JOIN events e ON e.server_id = s.event_server_id
		 LEFT JOIN checkins c ON c.subscription_id = s.id
		 ORDER BY u.name, e.starts_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select subscription views: %w", err)
	}
	defer rows.Close()

	var result []models.SubscriptionView
	for rows.Next() {
		var v models.SubscriptionView
		if err := rows.Scan(&v.LocalID, &v.ServerID, &v.UserName, &v.UserEmail,
			&v.EventServerID, &v.EventName, &v.Synced, &v.CheckedIn); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}
