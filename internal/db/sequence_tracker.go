package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetSequenceCursor reads the current round-robin cursor. A missing row
// means the pool has never been served and reads as zero.
func (d *DB) GetSequenceCursor(ctx context.Context) (int, error) {
	var cursor int
	err := d.Pool.QueryRow(ctx, `SELECT current_index FROM fallback_sequence_tracker WHERE id = 1`).Scan(&cursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cursor, nil
}

// SetSequenceCursor upserts the cursor value. The read-then-write pair is
// deliberately not transactional: last write wins, and concurrent visitors
// may observe duplicate indices. The sequencer filters fresh on every call,
// so a stale cursor can never select an ineligible candidate.
func (d *DB) SetSequenceCursor(ctx context.Context, value int) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO fallback_sequence_tracker (id, current_index, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET current_index = EXCLUDED.current_index, updated_at = NOW()
	`, value)
	return err
}

// ResetSequenceCursor sets the cursor back to zero. Exposed to admins for
// use after large pool reshuffles.
func (d *DB) ResetSequenceCursor(ctx context.Context) error {
	return d.SetSequenceCursor(ctx, 0)
}
