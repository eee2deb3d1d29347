package brackets

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/Dosada05/competition-engine/models"
)

// StartHybrid seeds the players, splits them into groupCount round-robin
// groups and generates every group match.
func StartHybrid(players []models.Player, groupCount int, seeding models.Seeding, rng *rand.Rand) (models.HybridRun, error) {
	if err := validateRoster(players); err != nil {
		return models.HybridRun{}, err
	}
	if groupCount < 1 {
		return models.HybridRun{}, fmt.Errorf("%w: group count must be at least 1, got %d", models.ErrInvalidOperand, groupCount)
	}
	if len(players) < 2*groupCount {
		return models.HybridRun{}, fmt.Errorf("%w: %d players cannot fill %d groups of at least 2",
			models.ErrInvalidOperand, len(players), groupCount)
	}

	ordered := SeedPlayers(players, seeding, rng)
	ids := make([]int, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}

	run := models.HybridRun{Players: ordered}
	for idx, members := range SerpentineGroups(ids, groupCount) {
		run.Groups = append(run.Groups, models.Group{
			Index:     idx,
			PlayerIDs: members,
			Matches:   RoundRobinMatches(idx, members),
		})
	}
	return run, nil
}

// SetPreliminaryResult sets, toggles off or clears (nil) a group match result.
// Results are locked once the finals bracket exists.
func SetPreliminaryResult(run models.HybridRun, matchID string, winner *int) (models.HybridRun, error) {
	if run.Bracket != nil {
		return run, fmt.Errorf("%w: preliminaries are locked after advancing", models.ErrInvalidOperand)
	}
	for g, group := range run.Groups {
		for i, m := range group.Matches {
			if m.ID != matchID {
				continue
			}
			next := run.Clone()
			if err := setToggle(&next.Groups[g].Matches[i], winner); err != nil {
				return run, err
			}
			return next, nil
		}
	}
	return run, fmt.Errorf("%w: match %s", models.ErrUnknownReference, matchID)
}

func preliminaryScores(run models.HybridRun) map[int]int {
	scores := make(map[int]int, len(run.Players))
	for _, g := range run.Groups {
		for _, m := range g.Matches {
			if m.Winner != nil {
				scores[*m.Winner]++
			}
		}
	}
	return scores
}

// GroupStandings ranks each group by wins; ties keep seed order.
func GroupStandings(run models.HybridRun) [][]models.Standing {
	scores := preliminaryScores(run)
	out := make([][]models.Standing, len(run.Groups))
	for i, g := range run.Groups {
		rows := make([]models.Standing, len(g.PlayerIDs))
		for j, id := range g.PlayerIDs {
			rows[j] = models.Standing{PlayerID: id, Score: scores[id], Group: g.Index + 1}
		}
		slices.SortStableFunc(rows, func(a, b models.Standing) int {
			return cmp.Compare(b.Score, a.Score)
		})
		for j := range rows {
			rows[j].Place = j + 1
		}
		out[i] = rows
	}
	return out
}

// preliminaryOrder lists every player by preliminary wins across all groups.
// Group difficulty is not normalized.
func preliminaryOrder(run models.HybridRun) []models.Player {
	scores := preliminaryScores(run)
	ordered := append([]models.Player(nil), run.Players...)
	slices.SortStableFunc(ordered, func(a, b models.Player) int {
		return cmp.Compare(scores[b.ID], scores[a.ID])
	})
	return ordered
}

// AdvanceToBracket seeds the top advanceCount players into a fresh
// single-elimination bracket. Every group match must be decided first.
func AdvanceToBracket(run models.HybridRun, advanceCount int, rng *rand.Rand) (models.HybridRun, error) {
	if len(run.Groups) == 0 {
		return run, fmt.Errorf("%w: preliminaries not started", models.ErrPrecondPending)
	}
	if run.Bracket != nil {
		return run, fmt.Errorf("%w: finals bracket already generated", models.ErrInvalidOperand)
	}
	for _, g := range run.Groups {
		for _, m := range g.Matches {
			if m.Winner == nil {
				return run, fmt.Errorf("%w: group %d match %s is undecided", models.ErrPrecondPending, g.Index+1, m.ID)
			}
		}
	}
	if advanceCount < 2 {
		return run, fmt.Errorf("%w: cannot advance %d players", models.ErrInsufficientParticipants, advanceCount)
	}
	if advanceCount > len(run.Players) {
		return run, fmt.Errorf("%w: cannot advance %d of %d players", models.ErrInvalidOperand, advanceCount, len(run.Players))
	}

	bracket, err := BuildBracket(preliminaryOrder(run)[:advanceCount], rng)
	if err != nil {
		return run, err
	}
	next := run.Clone()
	next.AdvanceCount = advanceCount
	next.Bracket = &bracket
	return next, nil
}

// SetHybridBracketWinner forwards to the finals bracket.
func SetHybridBracketWinner(run models.HybridRun, roundIdx, matchIdx, playerID int) (models.HybridRun, error) {
	if run.Bracket == nil {
		return run, fmt.Errorf("%w: finals bracket not generated", models.ErrPrecondPending)
	}
	bracket, err := SetBracketWinner(*run.Bracket, roundIdx, matchIdx, playerID)
	if err != nil {
		return run, err
	}
	next := run.Clone()
	next.Bracket = &bracket
	return next, nil
}

func ResetHybridBracket(run models.HybridRun) (models.HybridRun, error) {
	if run.Bracket == nil {
		return run, fmt.Errorf("%w: finals bracket not generated", models.ErrPrecondPending)
	}
	next := run.Clone()
	bracket := ResetBracket(*run.Bracket)
	next.Bracket = &bracket
	return next, nil
}

func HybridStatus(run models.HybridRun) models.Status {
	switch {
	case len(run.Groups) == 0:
		return models.StatusNotStarted
	case run.Bracket != nil && BracketStatus(*run.Bracket) == models.StatusFinished:
		return models.StatusFinished
	default:
		return models.StatusInProgress
	}
}

// HybridStandings places the finalists by the bracket result, then everyone
// else by preliminary wins.
func HybridStandings(run models.HybridRun) ([]models.Standing, error) {
	if HybridStatus(run) != models.StatusFinished {
		return nil, fmt.Errorf("%w: hybrid run is not finished", models.ErrPrecondPending)
	}
	out, err := BracketStandings(*run.Bracket)
	if err != nil {
		return nil, err
	}

	groupOf := make(map[int]int, len(run.Players))
	for _, g := range run.Groups {
		for _, id := range g.PlayerIDs {
			groupOf[id] = g.Index + 1
		}
	}
	placed := make(map[int]bool, len(out))
	for i := range out {
		placed[out[i].PlayerID] = true
		out[i].Group = groupOf[out[i].PlayerID]
	}

	scores := preliminaryScores(run)
	for _, p := range preliminaryOrder(run) {
		if placed[p.ID] {
			continue
		}
		out = append(out, models.Standing{
			Place:    len(out) + 1,
			PlayerID: p.ID,
			Score:    scores[p.ID],
			Group:    groupOf[p.ID],
		})
	}
	return out, nil
}
