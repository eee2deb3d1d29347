package models

// Standing is one row of a final or intermediate ranking.
type Standing struct {
	Place    int `json:"place"`
	PlayerID int `json:"player_id"`
	Score    int `json:"score"`
	SOS      int `json:"sos,omitempty"`
	SOSOS    int `json:"sosos,omitempty"`
	// Group is the 1-based preliminary group of a hybrid run.
	Group int `json:"group,omitempty"`
}
