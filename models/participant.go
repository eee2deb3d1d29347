package models

// ByeID marks a BYE in opponent histories. Real player IDs are always positive.
const ByeID = 0

// Player is a roster entry as supplied by the roster provider.
// DisplayRank is used only for seeding and is never mutated by the engine.
type Player struct {
	ID          int    `json:"id" db:"id"`
	DisplayName string `json:"display_name" db:"display_name"`
	DisplayRank int    `json:"display_rank" db:"display_rank"`
}
