package models

// SwissPlayer carries the Swiss stats of a player. Score, Opponents, SOS and
// SOSOS are caches rebuilt from the rounds after every change.
type SwissPlayer struct {
	Player
	Score     int   `json:"score"`
	Opponents []int `json:"opponents"`
	SOS       int   `json:"sos"`
	SOSOS     int   `json:"sosos"`
}

type SwissRun struct {
	Players []SwissPlayer `json:"players"`
	Rounds  []Round       `json:"rounds"`
}

func (s SwissRun) Clone() SwissRun {
	c := SwissRun{Rounds: CloneRounds(s.Rounds)}
	c.Players = make([]SwissPlayer, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p
		c.Players[i].Opponents = append([]int(nil), p.Opponents...)
	}
	return c
}
