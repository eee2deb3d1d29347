package brackets

import (
	"cmp"
	"slices"

	"github.com/Dosada05/competition-engine/models"
)

// Scores counts match wins per player across rounds. Byes count as wins.
func Scores(rounds []models.Round) map[int]int {
	scores := make(map[int]int)
	for _, r := range rounds {
		for _, m := range r.Matches {
			if m.Winner != nil {
				scores[*m.Winner]++
			}
		}
	}
	return scores
}

// Opponents lists, per player, every opponent faced in round order. A bye is
// recorded as models.ByeID.
func Opponents(rounds []models.Round) map[int][]int {
	opps := make(map[int][]int)
	for _, r := range rounds {
		for _, m := range r.Matches {
			a, b := m.Slots[0], m.Slots[1]
			switch {
			case a.IsPlayer() && b.IsPlayer():
				opps[a.PlayerID] = append(opps[a.PlayerID], b.PlayerID)
				opps[b.PlayerID] = append(opps[b.PlayerID], a.PlayerID)
			case a.IsPlayer() && b.IsBye():
				opps[a.PlayerID] = append(opps[a.PlayerID], models.ByeID)
			case b.IsPlayer() && a.IsBye():
				opps[b.PlayerID] = append(opps[b.PlayerID], models.ByeID)
			}
		}
	}
	return opps
}

// SOS sums the scores of every real opponent a player faced.
func SOS(playerID int, rounds []models.Round) int {
	return sos(playerID, Scores(rounds), Opponents(rounds))
}

// SOSOS sums the SOS of every real opponent a player faced.
func SOSOS(playerID int, rounds []models.Round) int {
	scores, opps := Scores(rounds), Opponents(rounds)
	return sosos(playerID, scores, opps)
}

func sos(id int, scores map[int]int, opps map[int][]int) int {
	total := 0
	for _, o := range opps[id] {
		if o != models.ByeID {
			total += scores[o]
		}
	}
	return total
}

func sosos(id int, scores map[int]int, opps map[int][]int) int {
	total := 0
	for _, o := range opps[id] {
		if o != models.ByeID {
			total += sos(o, scores, opps)
		}
	}
	return total
}

// HeadToHead returns +1 if a beat b in the first decided match between them,
// -1 if b won, and 0 if they never completed a match.
func HeadToHead(a, b int, rounds []models.Round) int {
	for _, r := range rounds {
		for _, m := range r.Matches {
			if m.Winner == nil || !m.HasPlayer(a) || !m.HasPlayer(b) {
				continue
			}
			if *m.Winner == a {
				return 1
			}
			return -1
		}
	}
	return 0
}

// RankStandings orders players by score, SOS, SOSOS and head-to-head, all
// descending. Remaining ties keep the order of ids.
func RankStandings(ids []int, rounds []models.Round) []models.Standing {
	scores, opps := Scores(rounds), Opponents(rounds)
	rows := make([]models.Standing, len(ids))
	for i, id := range ids {
		rows[i] = models.Standing{
			PlayerID: id,
			Score:    scores[id],
			SOS:      sos(id, scores, opps),
			SOSOS:    sosos(id, scores, opps),
		}
	}

	slices.SortStableFunc(rows, func(a, b models.Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.SOS, a.SOS); c != 0 {
			return c
		}
		if c := cmp.Compare(b.SOSOS, a.SOSOS); c != 0 {
			return c
		}
		return -HeadToHead(a.PlayerID, b.PlayerID, rounds)
	})

	for i := range rows {
		rows[i].Place = i + 1
	}
	return rows
}
