// Package store provides the SQLite storage layer for grinder.
//
// All hand-history data lives in a single SQLite database file:
// - hands: one row per distinct hand identifier
// - players: one row per seat per hand, positionally aligned with the source
// - actions: one row per action token, insertion order preserved
// - player_profiles: derived per-player features for downstream consumers
//
// The store is full-refresh: every pipeline run clears and repopulates it
// inside a single transaction, so a run either fully replaces the data or
// leaves it untouched.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "poker.db"

// HandRow is one row of the hands table.
type HandRow struct {
	HandID    int64
	Variant   string
	Venue     string
	TableName string
	Day       int
	Month     int
	Year      int
}

// SeatRow is one row of the players table. Seat is 1-based and equals the
// player's position in the source record's players list.
type SeatRow struct {
	HandID        int64
	PlayerID      string
	Seat          int
	StartingStack float64
	Winnings      float64
}

// ActionRow is one row of the actions table.
type ActionRow struct {
	HandID int64
	Action string
}

// SeatAction is one row of the players-by-actions join consumed by the
// metrics calculator. Every action in a hand pairs with every seat in
// that hand; hands without actions do not appear.
type SeatAction struct {
	PlayerID string
	HandID   int64
	Winnings float64
	Action   string
}

// Profile is one row of the player_profiles output table.
type Profile struct {
	PlayerID           string
	VPIPPercent        float64
	AggressionPercent  float64
	ShowdownWinPercent float64
	Cluster            int
	Archetype          string
}

// Stats holds row counts and refresh metadata for observability.
type Stats struct {
	HandCount    int64
	SeatCount    int64
	ActionCount  int64
	ProfileCount int64
	LastRunID    string
	LastRunAt    time.Time
	LastRunFiles int
}

// Config holds configuration for Open.
type Config struct {
	DBPath string
}

// Store is the persistence contract the pipeline components depend on.
type Store interface {
	// BeginRefresh clears all persisted rows and returns a transaction-scoped
	// handle for the load phase.
	BeginRefresh(ctx context.Context) (*Refresh, error)

	// Analytics reads. Valid only after a committed refresh.
	ActionTallies(ctx context.Context) ([]SeatAction, error)
	SaveProfiles(ctx context.Context, profiles []Profile) error
	Profiles(ctx context.Context) ([]Profile, error)

	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store on modernc.org/sqlite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Open creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func Open(cfg Config) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each pooled connection to :memory: would get its own database.
	if cfg.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
