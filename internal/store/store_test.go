package store

import (
	"context"
	"testing"
)

// newTestStore creates an in-memory store for testing.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.(*SQLiteStore)
}

func loadFixture(t *testing.T, s *SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	refresh, err := s.BeginRefresh(ctx)
	if err != nil {
		t.Fatalf("BeginRefresh: %v", err)
	}

	hand := HandRow{HandID: 1, Variant: "NT", Venue: "Home", TableName: "Main", Day: 14, Month: 2, Year: 2025}
	if err := refresh.InsertHand(ctx, hand); err != nil {
		t.Fatalf("InsertHand: %v", err)
	}
	seats := []SeatRow{
		{HandID: 1, PlayerID: "P1", Seat: 1, StartingStack: 100, Winnings: 50},
		{HandID: 1, PlayerID: "P2", Seat: 2, StartingStack: 100, Winnings: -50},
	}
	if err := refresh.InsertSeats(ctx, seats); err != nil {
		t.Fatalf("InsertSeats: %v", err)
	}
	actions := []ActionRow{
		{HandID: 1, Action: "P1 cbr 10"},
		{HandID: 1, Action: "P2 f"},
	}
	if err := refresh.InsertActions(ctx, actions); err != nil {
		t.Fatalf("InsertActions: %v", err)
	}

	if err := refresh.Commit(ctx, "run-1", 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"hands", "players", "actions", "player_profiles", "meta"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestInsertHandIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	refresh, err := s.BeginRefresh(ctx)
	if err != nil {
		t.Fatalf("BeginRefresh: %v", err)
	}
	if err := refresh.InsertHand(ctx, HandRow{HandID: 1, Venue: "first"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := refresh.InsertHand(ctx, HandRow{HandID: 1, Venue: "second"}); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if err := refresh.Commit(ctx, "run-1", 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var count int
	var venue string
	s.db.QueryRow("SELECT COUNT(*) FROM hands").Scan(&count)
	s.db.QueryRow("SELECT venue FROM hands WHERE hand_id = 1").Scan(&venue)
	if count != 1 {
		t.Errorf("hand count = %d, want 1", count)
	}
	if venue != "first" {
		t.Errorf("venue = %q, first write must win", venue)
	}
}

func TestRefreshClearsPreviousLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	loadFixture(t, s)
	loadFixture(t, s)

	var seats, actions int
	s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&seats)
	s.db.QueryRow("SELECT COUNT(*) FROM actions").Scan(&actions)
	if seats != 2 {
		t.Errorf("seat count after two refreshes = %d, want 2", seats)
	}
	if actions != 2 {
		t.Errorf("action count after two refreshes = %d, want 2", actions)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.HandCount != 1 || stats.LastRunID != "run-1" || stats.LastRunFiles != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRollbackRestoresPreviousState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	loadFixture(t, s)

	refresh, err := s.BeginRefresh(ctx)
	if err != nil {
		t.Fatalf("BeginRefresh: %v", err)
	}
	if err := refresh.InsertHand(ctx, HandRow{HandID: 99}); err != nil {
		t.Fatalf("InsertHand: %v", err)
	}
	if err := refresh.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	var hands int
	s.db.QueryRow("SELECT COUNT(*) FROM hands").Scan(&hands)
	if hands != 1 {
		t.Errorf("hand count after rollback = %d, want previous load intact", hands)
	}
	var handID int64
	s.db.QueryRow("SELECT hand_id FROM hands").Scan(&handID)
	if handID != 1 {
		t.Errorf("hand id = %d, want 1", handID)
	}
}

func TestActionTalliesJoinsByHand(t *testing.T) {
	s := newTestStore(t)
	loadFixture(t, s)

	tallies, err := s.ActionTallies(context.Background())
	if err != nil {
		t.Fatalf("ActionTallies: %v", err)
	}
	// 2 seats x 2 actions in the same hand.
	if len(tallies) != 4 {
		t.Fatalf("tally count = %d, want 4", len(tallies))
	}
	for _, tally := range tallies {
		if tally.HandID != 1 {
			t.Errorf("hand id = %d", tally.HandID)
		}
	}
	// Ordered by player; P1's rows carry P1's winnings for both actions.
	if tallies[0].PlayerID != "P1" || tallies[0].Winnings != 50 {
		t.Errorf("first tally = %+v", tallies[0])
	}
	if tallies[2].PlayerID != "P2" || tallies[2].Winnings != -50 {
		t.Errorf("third tally = %+v", tallies[2])
	}
}

func TestActionTalliesSkipsActionlessHands(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	refresh, err := s.BeginRefresh(ctx)
	if err != nil {
		t.Fatalf("BeginRefresh: %v", err)
	}
	refresh.InsertHand(ctx, HandRow{HandID: 5})
	refresh.InsertSeats(ctx, []SeatRow{{HandID: 5, PlayerID: "P9", Seat: 1}})
	if err := refresh.Commit(ctx, "run-1", 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	tallies, err := s.ActionTallies(ctx)
	if err != nil {
		t.Fatalf("ActionTallies: %v", err)
	}
	if len(tallies) != 0 {
		t.Errorf("hands without actions must not appear, got %d rows", len(tallies))
	}
}

func TestSaveAndReadProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []Profile{
		{PlayerID: "P1", VPIPPercent: 40, AggressionPercent: 30, ShowdownWinPercent: 55, Cluster: 2, Archetype: "Loose Aggressive (LAG)"},
		{PlayerID: "P2", VPIPPercent: 12, AggressionPercent: 80, ShowdownWinPercent: 20, Cluster: 1, Archetype: "Tight Passive (NIT)"},
	}
	if err := s.SaveProfiles(ctx, in); err != nil {
		t.Fatalf("SaveProfiles: %v", err)
	}

	// Saving again replaces, never appends.
	if err := s.SaveProfiles(ctx, in); err != nil {
		t.Fatalf("second SaveProfiles: %v", err)
	}

	out, err := s.Profiles(ctx)
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("profile count = %d, want 2", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Errorf("profiles round-trip mismatch: %+v", out)
	}
}
