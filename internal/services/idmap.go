package services

import (
	"context"

	"github.com/dmoura/eventgate/internal/repositories/users"
)

// reconciliationMap maps remote user ids to local user ids. It is rebuilt
// from the store for every download run and discarded afterwards; it is
// never persisted or shared across runs.
type reconciliationMap map[int64]int64

func buildReconciliationMap(ctx context.Context, repo users.Repository) (reconciliationMap, error) {
	pairs, err := repo.ServerIDPairs(ctx)
	if err != nil {
		return nil, err
	}
	return reconciliationMap(pairs), nil
}

// resolve returns the local id for a remote user id. A miss marks the
// referencing record as an orphan for this run.
func (m reconciliationMap) resolve(serverID int64) (int64, bool) {
	localID, ok := m[serverID]
	return localID, ok
}
