package checkins

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

func (r *SQLiteRepository) Insert(ctx context.Context, subscriptionLocalID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checkins (subscription_id, synced) VALUES (?, 0)`,
		subscriptionLocalID)
	if err != nil {
		if dbx.IsConstraint(err) {
			return 0, fmt.Errorf("%w: subscription already checked in", common.ErrConflict)
		}
		return 0, fmt.Errorf("failed to insert checkin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted checkin id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetBySubscription(ctx context.Context, subscriptionLocalID int64) (*models.Checkin, error) {
	c := &models.Checkin{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subscription_id, synced FROM checkins WHERE subscription_id = ?`,
		subscriptionLocalID).Scan(&c.LocalID, &c.SubscriptionLocalID, &c.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan checkin: %w", err)
	}
	return c, nil
}

// ListUnsyncedEligible derives a check-in's sync eligibility from the parent
// subscription: it can only be reported once the subscription is known
// server-side.
func (r *SQLiteRepository) ListUnsyncedEligible(ctx context.Context) ([]Pending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.subscription_id, c.synced, s.server_id
		 FROM checkins c
		 JOIN subscriptions s ON s.id = c.subscription_id
		 WHERE c.synced = 0 AND s.server_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending checkins: %w", err)
	}
	defer rows.Close()

	var result []Pending
	for rows.Next() {
		var p Pending
		if err := rows.Scan(&p.LocalID, &p.SubscriptionLocalID, &p.Synced, &p.SubscriptionServerID); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checkins SET synced = 1 WHERE id = ? AND synced = 0`, localID)
	if err != nil {
		return fmt.Errorf("failed to mark checkin synced: %w", err)
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

func (r *SQLiteRepository) DeleteBySubscription(ctx context.Context, subscriptionLocalID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM checkins WHERE subscription_id = ?`, subscriptionLocalID)
	if err != nil {
		return fmt.Errorf("failed to delete checkin: %w", err)
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

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Checkin, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subscription_id, synced FROM checkins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins: %w", err)
	}
	defer rows.Close()

	var result []models.Checkin
	for rows.Next() {
		var c models.Checkin
		if err := rows.Scan(&c.LocalID, &c.SubscriptionLocalID, &c.Synced); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
