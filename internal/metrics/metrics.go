// Package metrics derives per-player behavioral features from a loaded
// store: VPIP, aggression share, and showdown-win percentage.
package metrics

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mwd-projects/grinder/internal/logging"
	"github.com/mwd-projects/grinder/internal/phh"
	"github.com/mwd-projects/grinder/internal/store"
)

// DefaultMinHands is the qualification floor: only players with strictly
// more than this many distinct hands are profiled.
const DefaultMinHands = 10

// PlayerFeatures is one derived feature row. RaiseHands is informational
// for profile listings and stays out of the clustering matrix.
type PlayerFeatures struct {
	PlayerID           string
	TotalHands         int
	RaiseHands         int
	VPIPPercent        float64
	AggressionPercent  float64
	ShowdownWinPercent float64
}

// TallySource is the read-side store contract the calculator needs.
type TallySource interface {
	ActionTallies(ctx context.Context) ([]store.SeatAction, error)
}

type playerTally struct {
	hands      map[int64]struct{}
	vpipHands  map[int64]struct{}
	raiseHands map[int64]struct{}
	winHands   map[int64]struct{}
	aggressive int
	passive    int
}

// Compute derives a feature row for every player with more than minHands
// distinct hands. A minHands of zero keeps every player with at least one
// hand; a negative value falls back to DefaultMinHands. Action tokens are
// classified per phh.Classify; a hand counts toward a player's totals only
// if it has recorded actions. Players whose classified-action volume is
// zero are dropped, which is routine data cleaning rather than an error.
func Compute(ctx context.Context, src TallySource, minHands int, log zerolog.Logger) ([]PlayerFeatures, error) {
	if minHands < 0 {
		minHands = DefaultMinHands
	}

	rows, err := src.ActionTallies(ctx)
	if err != nil {
		return nil, err
	}

	tallies := make(map[string]*playerTally)
	for _, row := range rows {
		t := tallies[row.PlayerID]
		if t == nil {
			t = &playerTally{
				hands:      make(map[int64]struct{}),
				vpipHands:  make(map[int64]struct{}),
				raiseHands: make(map[int64]struct{}),
				winHands:   make(map[int64]struct{}),
			}
			tallies[row.PlayerID] = t
		}

		t.hands[row.HandID] = struct{}{}
		if row.Winnings > 0 {
			t.winHands[row.HandID] = struct{}{}
		}

		kind := phh.Classify(row.Action)
		if kind.Voluntary() {
			t.vpipHands[row.HandID] = struct{}{}
		}
		if kind.Aggressive() {
			t.aggressive++
		}
		if kind.Raise() {
			t.raiseHands[row.HandID] = struct{}{}
		}
		if kind.Passive() {
			t.passive++
		}
	}

	features := make([]PlayerFeatures, 0, len(tallies))
	for playerID, t := range tallies {
		total := len(t.hands)
		if total <= minHands {
			continue
		}

		classified := t.aggressive + t.passive
		if classified == 0 {
			log.Debug().Str(logging.PlayerIDKey, playerID).
				Msg("dropping player with no classified actions")
			continue
		}

		features = append(features, PlayerFeatures{
			PlayerID:           playerID,
			TotalHands:         total,
			RaiseHands:         len(t.raiseHands),
			VPIPPercent:        float64(len(t.vpipHands)) / float64(total) * 100,
			AggressionPercent:  float64(t.passive) / float64(classified) * 100,
			ShowdownWinPercent: float64(len(t.winHands)) / float64(total) * 100,
		})
	}

	sort.Slice(features, func(i, j int) bool {
		return features[i].PlayerID < features[j].PlayerID
	})
	return features, nil
}
