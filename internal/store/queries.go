package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ActionTallies returns the players-by-actions join feeding the metrics
// calculator: every action of a hand paired with every seat in that hand.
// Hands with no recorded actions drop out of the join, so they do not
// count toward a player's hand totals.
func (s *SQLiteStore) ActionTallies(ctx context.Context) ([]SeatAction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.player_id, p.hand_id, p.winnings, a.action
		 FROM players p
		 JOIN actions a ON p.hand_id = a.hand_id
		 ORDER BY p.player_id, p.hand_id, a.rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying action tallies: %w", err)
	}
	defer rows.Close()

	var tallies []SeatAction
	for rows.Next() {
		var t SeatAction
		if err := rows.Scan(&t.PlayerID, &t.HandID, &t.Winnings, &t.Action); err != nil {
			return nil, fmt.Errorf("scanning action tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading action tallies: %w", err)
	}
	return tallies, nil
}

// SaveProfiles replaces the player_profiles table with the given rows.
func (s *SQLiteStore) SaveProfiles(ctx context.Context, profiles []Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning profile save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_profiles"); err != nil {
		return fmt.Errorf("clearing profiles: %w", err)
	}

	for _, p := range profiles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO player_profiles
			 (player_id, vpip_percent, aggression_percent, showdown_win_percent, cluster_idx, archetype)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.PlayerID, p.VPIPPercent, p.AggressionPercent, p.ShowdownWinPercent, p.Cluster, p.Archetype,
		)
		if err != nil {
			return fmt.Errorf("inserting profile for %s: %w", p.PlayerID, err)
		}
	}

	return tx.Commit()
}

// Profiles returns the persisted derived output, ordered by player id.
func (s *SQLiteStore) Profiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, vpip_percent, aggression_percent, showdown_win_percent, cluster_idx, archetype
		 FROM player_profiles ORDER BY player_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.PlayerID, &p.VPIPPercent, &p.AggressionPercent,
			&p.ShowdownWinPercent, &p.Cluster, &p.Archetype); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	return profiles, nil
}

// Stats reports row counts and the last refresh metadata.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM hands", &stats.HandCount},
		{"SELECT COUNT(*) FROM players", &stats.SeatCount},
		{"SELECT COUNT(*) FROM actions", &stats.ActionCount},
		{"SELECT COUNT(*) FROM player_profiles", &stats.ProfileCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting rows: %w", err)
		}
	}

	stats.LastRunID = s.metaValue(ctx, "last_run_id")
	if at := s.metaValue(ctx, "last_run_at"); at != "" {
		if parsed, err := time.Parse(time.RFC3339, at); err == nil {
			stats.LastRunAt = parsed
		}
	}
	if files := s.metaValue(ctx, "last_run_files"); files != "" {
		if n, err := strconv.Atoi(files); err == nil {
			stats.LastRunFiles = n
		}
	}

	return stats, nil
}

func (s *SQLiteStore) metaValue(ctx context.Context, key string) string {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}
