package models

// Group is one round-robin pool of the preliminary stage.
type Group struct {
	Index     int     `json:"index"`
	PlayerIDs []int   `json:"player_ids"`
	Matches   []Match `json:"matches"`
}

type HybridRun struct {
	Players      []Player `json:"players"`
	Groups       []Group  `json:"groups"`
	AdvanceCount int      `json:"advance_count,omitempty"`
	Bracket      *Bracket `json:"bracket,omitempty"`
}

func (h HybridRun) Clone() HybridRun {
	c := HybridRun{
		Players:      append([]Player(nil), h.Players...),
		AdvanceCount: h.AdvanceCount,
	}
	c.Groups = make([]Group, len(h.Groups))
	for i, g := range h.Groups {
		ng := Group{Index: g.Index, PlayerIDs: append([]int(nil), g.PlayerIDs...)}
		ng.Matches = make([]Match, len(g.Matches))
		for j, m := range g.Matches {
			ng.Matches[j] = m.Clone()
		}
		c.Groups[i] = ng
	}
	if h.Bracket != nil {
		b := h.Bracket.Clone()
		c.Bracket = &b
	}
	return c
}
