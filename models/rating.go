package models

import "time"

type Outcome string

const (
	OutcomeAWin Outcome = "a_win"
	OutcomeBWin Outcome = "b_win"
	OutcomeDraw Outcome = "draw"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAWin, OutcomeBWin, OutcomeDraw:
		return true
	}
	return false
}

type RecordStatus string

const (
	RecordActive    RecordStatus = "active"
	RecordCancelled RecordStatus = "cancelled"
)

// RatingRecord is one duel. Delta applies to PlayerA; PlayerB receives -Delta.
// RatingA and RatingB are the pre-match ratings.
type RatingRecord struct {
	ID        string       `json:"id" db:"id"`
	PlayerA   int          `json:"player_a" db:"player_a_id"`
	PlayerB   int          `json:"player_b" db:"player_b_id"`
	Outcome   Outcome      `json:"outcome" db:"outcome"`
	RatingA   int          `json:"rating_a" db:"rating_a"`
	RatingB   int          `json:"rating_b" db:"rating_b"`
	Delta     int          `json:"delta" db:"delta"`
	KFactor   int          `json:"k_factor" db:"k_factor"`
	Status    RecordStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// RatedPlayer is a player's starting point in the duel ledger.
type RatedPlayer struct {
	PlayerID      int `json:"player_id" db:"player_id"`
	InitialRating int `json:"initial_rating" db:"initial_rating"`
}
