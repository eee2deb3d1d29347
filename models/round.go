package models

type RoundKind string

const (
	RoundStandard      RoundKind = "standard"
	RoundSemiFinal     RoundKind = "semifinal"
	RoundFinalAndThird RoundKind = "final_and_third"
	RoundFinal         RoundKind = "final"
)

type Round struct {
	Kind    RoundKind `json:"kind"`
	Title   string    `json:"title"`
	Matches []Match   `json:"matches"`
}

func (r Round) Clone() Round {
	c := r
	c.Matches = make([]Match, len(r.Matches))
	for i, m := range r.Matches {
		c.Matches[i] = m.Clone()
	}
	return c
}

// Resolved reports whether every match in the round has a winner.
func (r Round) Resolved() bool {
	for _, m := range r.Matches {
		if m.Winner == nil {
			return false
		}
	}
	return true
}

func CloneRounds(rounds []Round) []Round {
	if rounds == nil {
		return nil
	}
	out := make([]Round, len(rounds))
	for i, r := range rounds {
		out[i] = r.Clone()
	}
	return out
}
