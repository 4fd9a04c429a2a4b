// Package ingest normalizes parsed hand records into relational rows and
// drives the full-refresh load of a data directory into the store.
//
// Records are independent once delimited: a shape violation rejects the
// single offending record, while a structural parse error fails the whole
// file and aborts the run.
package ingest

import (
	"fmt"
	"strconv"

	"github.com/mwd-projects/grinder/internal/phh"
	"github.com/mwd-projects/grinder/internal/store"
)

// ShapeError reports list-valued fields with inconsistent lengths, or a
// record missing required fields. It rejects the record, not the file.
type ShapeError struct {
	HandID string
	Reason string
}

func (e *ShapeError) Error() string {
	hand := e.HandID
	if hand == "" {
		hand = "?"
	}
	return fmt.Sprintf("hand %s: %s", hand, e.Reason)
}

// Normalize validates one RawHand and flattens it into a hand row,
// len(players) seat rows, and len(actions) action rows.
//
// Winnings defaults to all-zero when the source record omits the field.
func Normalize(raw phh.RawHand) (store.HandRow, []store.SeatRow, []store.ActionRow, error) {
	var hand store.HandRow

	if raw.HandID == "" {
		return hand, nil, nil, &ShapeError{Reason: "missing hand field"}
	}
	handID, err := strconv.ParseInt(raw.HandID, 10, 64)
	if err != nil {
		return hand, nil, nil, &ShapeError{HandID: raw.HandID, Reason: "hand field is not an integer"}
	}

	if len(raw.Players) == 0 {
		return hand, nil, nil, &ShapeError{HandID: raw.HandID, Reason: "players list is missing or empty"}
	}
	if len(raw.StartingStacks) != len(raw.Players) {
		return hand, nil, nil, &ShapeError{
			HandID: raw.HandID,
			Reason: fmt.Sprintf("starting_stacks has %d entries for %d players",
				len(raw.StartingStacks), len(raw.Players)),
		}
	}

	winnings := raw.Winnings
	if winnings == nil {
		winnings = make([]float64, len(raw.Players))
	} else if len(winnings) != len(raw.Players) {
		return hand, nil, nil, &ShapeError{
			HandID: raw.HandID,
			Reason: fmt.Sprintf("winnings has %d entries for %d players",
				len(winnings), len(raw.Players)),
		}
	}

	hand = store.HandRow{
		HandID:    handID,
		Variant:   raw.Variant,
		Venue:     raw.Venue,
		TableName: raw.Table,
		Day:       atoiOrZero(raw.Day),
		Month:     atoiOrZero(raw.Month),
		Year:      atoiOrZero(raw.Year),
	}

	seats := make([]store.SeatRow, 0, len(raw.Players))
	for i, player := range raw.Players {
		seats = append(seats, store.SeatRow{
			HandID:        handID,
			PlayerID:      player,
			Seat:          i + 1,
			StartingStack: raw.StartingStacks[i],
			Winnings:      winnings[i],
		})
	}

	actions := make([]store.ActionRow, 0, len(raw.Actions))
	for _, token := range raw.Actions {
		actions = append(actions, store.ActionRow{HandID: handID, Action: token})
	}

	return hand, seats, actions, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
