package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-sync/internal/shared"
)

// StateRepository manages the single sync_state row: the updated-since
// watermark plus the statistics of the last completed run.
type StateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load reads the current sync state. The row is seeded by migration, so a
// missing row means the database was never set up.
func (r *StateRepository) Load(ctx context.Context) (*SyncState, error) {
	var state SyncState
	err := r.db.QueryRowContext(ctx,
		`SELECT updated_since, last_run_id, last_downloaded, last_succeeded, last_failed
		 FROM sync_state WHERE id = 1`).
		Scan(&state.UpdatedSince, &state.LastRunID, &state.LastDownloaded,
			&state.LastSucceeded, &state.LastFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	}
	return &state, nil
}

// Save persists the watermark and run counters. Called only after a run
// completes without a fatal error.
func (r *StateRepository) Save(ctx context.Context, state *SyncState) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sync_state
		 SET updated_since = ?, last_run_id = ?, last_downloaded = ?,
		     last_succeeded = ?, last_failed = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = 1`,
		state.UpdatedSince, state.LastRunID, state.LastDownloaded,
		state.LastSucceeded, state.LastFailed)
	if err != nil {
		return fmt.Errorf("%w: failed to save sync state: %v", shared.ErrStoreWrite, err)
	}
	return nil
}

// Reset clears the watermark and counters so the next run fetches the full
// catalog.
func (r *StateRepository) Reset(ctx context.Context) error {
	return r.Save(ctx, &SyncState{})
}
