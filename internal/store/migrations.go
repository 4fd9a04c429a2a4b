package store

import "fmt"

const schemaVersion = "1"

// migrate creates all tables if they don't exist and seeds metadata.
func (s *SQLiteStore) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hands (
			hand_id    INTEGER PRIMARY KEY,
			variant    TEXT,
			venue      TEXT,
			table_name TEXT,
			day        INTEGER,
			month      INTEGER,
			year       INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS players (
			hand_id        INTEGER NOT NULL,
			player_id      TEXT NOT NULL,
			seat           INTEGER NOT NULL,
			starting_stack REAL,
			winnings       REAL,
			FOREIGN KEY(hand_id) REFERENCES hands(hand_id)
		)`,

		`CREATE TABLE IF NOT EXISTS actions (
			hand_id INTEGER NOT NULL,
			action  TEXT NOT NULL,
			FOREIGN KEY(hand_id) REFERENCES hands(hand_id)
		)`,

		// Derived output, rewritten after every clustering run.
		`CREATE TABLE IF NOT EXISTS player_profiles (
			player_id           TEXT PRIMARY KEY,
			vpip_percent        REAL NOT NULL,
			aggression_percent  REAL NOT NULL,
			showdown_win_percent REAL NOT NULL,
			cluster_idx         INTEGER NOT NULL,
			archetype           TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_players_hand ON players(hand_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_hand ON actions(hand_id)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion,
	); err != nil {
		return fmt.Errorf("seeding schema version: %w", err)
	}

	return tx.Commit()
}
