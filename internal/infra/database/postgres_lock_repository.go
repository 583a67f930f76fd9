package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresLockRepository implements the cooperative job lock over a
// singleton row per lock name. Acquisition is one atomic statement rather
// than insert-and-catch-duplicate, so the contract does not depend on a
// driver-specific uniqueness-violation signal.
type PostgresLockRepository struct {
	db *sql.DB
}

func NewPostgresLockRepository(db *sql.DB) *PostgresLockRepository {
	return &PostgresLockRepository{db: db}
}

// TryAcquire inserts the lock row, or takes over an expired one. Zero rows
// affected means another holder's lock is still live.
func (r *PostgresLockRepository) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	query := `INSERT INTO job_locks (name, locked_at, expires_at)
               VALUES ($1, NOW(), NOW() + ($2 * INTERVAL '1 second'))
               ON CONFLICT (name) DO UPDATE
                   SET locked_at = NOW(), expires_at = EXCLUDED.expires_at
                   WHERE job_locks.expires_at <= NOW()`

	res, err := r.db.ExecContext(ctx, query, name, int64(ttl.Seconds()))
	if err != nil {
		return false, fmt.Errorf("error acquiring job lock %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error acquiring job lock %q: %w", name, err)
	}
	return affected > 0, nil
}

// Release pulls the expiry to now; the row stays behind for the next run to
// take over.
func (r *PostgresLockRepository) Release(ctx context.Context, name string) error {
	query := `UPDATE job_locks SET expires_at = NOW() WHERE name = $1`
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("error releasing job lock %q: %w", name, err)
	}
	return nil
}
