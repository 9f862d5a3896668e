package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepository stores one cached odds/scores payload per cache
// key. It backs the odds cache's SnapshotStore interface.
type SnapshotRepository struct {
	db DBTX
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get returns the cached payload and fetch timestamp for a key. ok is
// false when no snapshot exists.
func (r *SnapshotRepository) Get(ctx context.Context, key string) (json.RawMessage, time.Time, bool, error) {
	var payload []byte
	var fetchedAt time.Time
	err := r.db.QueryRow(ctx,
		`SELECT payload, fetched_at FROM odds_snapshots WHERE cache_key = $1`, key).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("get snapshot: %w", err)
	}
	return payload, fetchedAt, true, nil
}

// Set upserts the snapshot for a key. Concurrent refetches overwrite
// each other; last writer wins.
func (r *SnapshotRepository) Set(ctx context.Context, key string, payload json.RawMessage, fetchedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO odds_snapshots (cache_key, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			fetched_at = EXCLUDED.fetched_at`,
		key, []byte(payload), fetchedAt)
	if err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}
