package models

// Bracket is a single-elimination bracket sized to the next power of two.
type Bracket struct {
	Size   int     `json:"size"`
	Rounds []Round `json:"rounds"`
}

func (b Bracket) Clone() Bracket {
	return Bracket{Size: b.Size, Rounds: CloneRounds(b.Rounds)}
}
