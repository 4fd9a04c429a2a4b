package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Refresh is a transaction-scoped handle for one full-refresh load. All
// existing rows are cleared when the refresh begins; nothing becomes
// visible to readers until Commit. A failed run rolls the whole load back,
// leaving the previous store state intact.
type Refresh struct {
	tx   *sql.Tx
	done bool
}

// BeginRefresh starts a refresh transaction and truncates hands, players,
// actions, and player_profiles inside it.
func (s *SQLiteStore) BeginRefresh(ctx context.Context) (*Refresh, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning refresh: %w", err)
	}

	clears := []string{
		"DELETE FROM actions",
		"DELETE FROM players",
		"DELETE FROM player_profiles",
		"DELETE FROM hands",
	}
	for _, stmt := range clears {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("clearing tables: %w", err)
		}
	}

	return &Refresh{tx: tx}, nil
}

// InsertHand inserts a hand row. Duplicate hand identifiers are ignored:
// the first write wins, it is never overwritten.
func (r *Refresh) InsertHand(ctx context.Context, h HandRow) error {
	_, err := r.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO hands (hand_id, variant, venue, table_name, day, month, year)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.HandID, h.Variant, h.Venue, h.TableName, h.Day, h.Month, h.Year,
	)
	if err != nil {
		return fmt.Errorf("inserting hand %d: %w", h.HandID, err)
	}
	return nil
}

// InsertSeats appends the seat rows for one hand.
func (r *Refresh) InsertSeats(ctx context.Context, seats []SeatRow) error {
	for _, seat := range seats {
		_, err := r.tx.ExecContext(ctx,
			`INSERT INTO players (hand_id, player_id, seat, starting_stack, winnings)
			 VALUES (?, ?, ?, ?, ?)`,
			seat.HandID, seat.PlayerID, seat.Seat, seat.StartingStack, seat.Winnings,
		)
		if err != nil {
			return fmt.Errorf("inserting seat %d of hand %d: %w", seat.Seat, seat.HandID, err)
		}
	}
	return nil
}

// InsertActions appends the action rows for one hand, in token order.
func (r *Refresh) InsertActions(ctx context.Context, actions []ActionRow) error {
	for _, a := range actions {
		_, err := r.tx.ExecContext(ctx,
			`INSERT INTO actions (hand_id, action) VALUES (?, ?)`,
			a.HandID, a.Action,
		)
		if err != nil {
			return fmt.Errorf("inserting action for hand %d: %w", a.HandID, err)
		}
	}
	return nil
}

// Commit records the refresh metadata and makes the load visible.
func (r *Refresh) Commit(ctx context.Context, runID string, fileCount int) error {
	if r.done {
		return fmt.Errorf("refresh already finished")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	meta := map[string]string{
		"last_run_id":    runID,
		"last_run_at":    now,
		"last_run_files": fmt.Sprintf("%d", fileCount),
	}
	for key, value := range meta {
		if _, err := r.tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			r.tx.Rollback()
			r.done = true
			return fmt.Errorf("recording refresh metadata: %w", err)
		}
	}

	r.done = true
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("committing refresh: %w", err)
	}
	return nil
}

// Rollback abandons the load, restoring the pre-refresh store state.
// Safe to call after Commit.
func (r *Refresh) Rollback() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.tx.Rollback()
}
