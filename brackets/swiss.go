package brackets

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/Dosada05/competition-engine/models"
)

// pairingSearchBudget bounds the rematch-avoiding search in nodes visited.
const pairingSearchBudget = 200_000

type pairing struct {
	a, b    int
	rematch bool
}

// StartSwiss seeds the players and pairs round one as 1v2, 3v4, ... with the
// lowest seed taking the bye when the count is odd.
func StartSwiss(players []models.Player, seeding models.Seeding, rng *rand.Rand) (models.SwissRun, error) {
	if err := validateRoster(players); err != nil {
		return models.SwissRun{}, err
	}

	ordered := SeedPlayers(players, seeding, rng)
	run := models.SwissRun{Players: make([]models.SwissPlayer, len(ordered))}
	order := make([]int, len(ordered))
	for i, p := range ordered {
		run.Players[i] = models.SwissPlayer{Player: p, Opponents: []int{}}
		order[i] = p.ID
	}

	run.Rounds = append(run.Rounds, pairRound(1, order, nil, nil))
	rebuildSwissStats(&run)
	return run, nil
}

// NextSwissRound pairs a new round from the current standings. Players are
// shuffled before the stable score sort so equal scores meet in varying order.
func NextSwissRound(run models.SwissRun, rng *rand.Rand) (models.SwissRun, error) {
	if len(run.Players) < 2 {
		return run, fmt.Errorf("%w: need at least 2 players, got %d", models.ErrInsufficientParticipants, len(run.Players))
	}
	if n := len(run.Rounds); n > 0 && !run.Rounds[n-1].Resolved() {
		return run, fmt.Errorf("%w: round %d still has undecided matches", models.ErrPrecondPending, n)
	}

	scores, opps := Scores(run.Rounds), Opponents(run.Rounds)
	order := make([]int, len(run.Players))
	for i, p := range run.Players {
		order[i] = p.ID
	}
	shuffle(order, rng)
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	next := run.Clone()
	next.Rounds = append(next.Rounds, pairRound(len(run.Rounds)+1, order, scores, opps))
	rebuildSwissStats(&next)
	return next, nil
}

// CancelLastSwissRound drops the most recent round together with its results.
// With no rounds the run is returned unchanged alongside ErrNoHistory.
func CancelLastSwissRound(run models.SwissRun) (models.SwissRun, error) {
	if len(run.Rounds) == 0 {
		return run, fmt.Errorf("%w: nothing to cancel", models.ErrNoHistory)
	}
	next := run.Clone()
	next.Rounds = next.Rounds[:len(next.Rounds)-1]
	rebuildSwissStats(&next)
	return next, nil
}

// ReshuffleLastSwissRound cancels the most recent round and pairs it again.
func ReshuffleLastSwissRound(run models.SwissRun, rng *rand.Rand) (models.SwissRun, error) {
	cancelled, err := CancelLastSwissRound(run)
	if err != nil {
		return run, err
	}
	next, err := NextSwissRound(cancelled, rng)
	if err != nil {
		return run, err
	}
	return next, nil
}

// SetSwissResult sets or clears the winner of a match in the latest round.
// Naming the current winner again clears it. Earlier rounds are locked.
func SetSwissResult(run models.SwissRun, roundIdx int, matchID string, winner *int) (models.SwissRun, error) {
	if roundIdx < 0 || roundIdx >= len(run.Rounds) {
		return run, fmt.Errorf("%w: round %d", models.ErrUnknownReference, roundIdx)
	}
	if roundIdx != len(run.Rounds)-1 {
		return run, fmt.Errorf("%w: round %d is locked by later rounds", models.ErrInvalidOperand, roundIdx)
	}
	matchIdx := slices.IndexFunc(run.Rounds[roundIdx].Matches, func(m models.Match) bool { return m.ID == matchID })
	if matchIdx < 0 {
		return run, fmt.Errorf("%w: match %s in round %d", models.ErrUnknownReference, matchID, roundIdx)
	}

	next := run.Clone()
	if err := setToggle(&next.Rounds[roundIdx].Matches[matchIdx], winner); err != nil {
		return run, err
	}
	rebuildSwissStats(&next)
	return next, nil
}

func SwissStatus(run models.SwissRun) models.Status {
	if len(run.Rounds) == 0 {
		return models.StatusNotStarted
	}
	return models.StatusInProgress
}

// SwissStandings ranks the run as it stands, ties broken in seed order.
func SwissStandings(run models.SwissRun) []models.Standing {
	ids := make([]int, len(run.Players))
	for i, p := range run.Players {
		ids[i] = p.ID
	}
	return RankStandings(ids, run.Rounds)
}

// SwissFinalStandings is SwissStandings once the latest round is fully decided.
func SwissFinalStandings(run models.SwissRun) ([]models.Standing, error) {
	n := len(run.Rounds)
	if n == 0 {
		return nil, fmt.Errorf("%w: no rounds played", models.ErrPrecondPending)
	}
	if !run.Rounds[n-1].Resolved() {
		return nil, fmt.Errorf("%w: round %d still has undecided matches", models.ErrPrecondPending, n)
	}
	return SwissStandings(run), nil
}

// rebuildSwissStats recomputes every cached stat from the rounds.
func rebuildSwissStats(run *models.SwissRun) {
	scores, opps := Scores(run.Rounds), Opponents(run.Rounds)
	for i := range run.Players {
		id := run.Players[i].ID
		run.Players[i].Score = scores[id]
		run.Players[i].Opponents = append([]int{}, opps[id]...)
		run.Players[i].SOS = sos(id, scores, opps)
		run.Players[i].SOSOS = sosos(id, scores, opps)
	}
}

// pairRound assigns the bye (if any) and pairs the rest of order, which must
// already be sorted best first.
func pairRound(number int, order []int, scores map[int]int, opps map[int][]int) models.Round {
	ids := append([]int(nil), order...)

	byeID := 0
	if len(ids)%2 == 1 {
		pick := len(ids) - 1
		for i := len(ids) - 1; i >= 0; i-- {
			if !slices.Contains(opps[ids[i]], models.ByeID) {
				pick = i
				break
			}
		}
		byeID = ids[pick]
		ids = slices.Delete(ids, pick, pick+1)
	}

	pairs := greedyPairs(ids, scores, opps)
	if slices.ContainsFunc(pairs, func(p pairing) bool { return p.rematch }) {
		if alt, ok := searchPairs(ids, scores, opps); ok {
			pairs = alt
		}
	}

	round := models.Round{Kind: models.RoundStandard, Title: fmt.Sprintf("round %d", number)}
	for _, p := range pairs {
		round.Matches = append(round.Matches, models.Match{
			Slots:   [2]models.Slot{models.PlayerSlot(p.a), models.PlayerSlot(p.b)},
			Rematch: p.rematch,
		})
	}
	if byeID != 0 {
		m := models.Match{Slots: [2]models.Slot{models.PlayerSlot(byeID), models.ByeSlot()}}
		autoResolve(&m)
		round.Matches = append(round.Matches, m)
	}
	for i := range round.Matches {
		round.Matches[i].ID = fmt.Sprintf("R%dM%d", number, i+1)
	}
	return round
}

func faced(opps map[int][]int, a, b int) bool {
	return slices.Contains(opps[a], b)
}

// candidates lists the unpaired players after i that i has never faced:
// equal scores first, then the rest, each in sorted order.
func candidates(i int, ids []int, paired []bool, scores map[int]int, opps map[int][]int) []int {
	var same, other []int
	for j := i + 1; j < len(ids); j++ {
		if paired[j] || faced(opps, ids[i], ids[j]) {
			continue
		}
		if scores[ids[j]] == scores[ids[i]] {
			same = append(same, j)
		} else {
			other = append(other, j)
		}
	}
	return append(same, other...)
}

// greedyPairs pairs top to bottom. A repeat pairing is used only when the
// player has faced every remaining candidate, and it is flagged.
func greedyPairs(ids []int, scores map[int]int, opps map[int][]int) []pairing {
	paired := make([]bool, len(ids))
	pairs := make([]pairing, 0, len(ids)/2)
	for i := range ids {
		if paired[i] {
			continue
		}
		paired[i] = true
		var j int
		rematch := false
		if c := candidates(i, ids, paired, scores, opps); len(c) > 0 {
			j = c[0]
		} else {
			j = slices.Index(paired[i+1:], false) + i + 1
			rematch = true
		}
		paired[j] = true
		pairs = append(pairs, pairing{a: ids[i], b: ids[j], rematch: rematch})
	}
	return pairs
}

// searchPairs looks for a pairing without repeats, trying candidates in the
// same preference order as greedyPairs.
func searchPairs(ids []int, scores map[int]int, opps map[int][]int) ([]pairing, bool) {
	paired := make([]bool, len(ids))
	pairs := make([]pairing, 0, len(ids)/2)
	budget := pairingSearchBudget

	var walk func() bool
	walk = func() bool {
		i := slices.Index(paired, false)
		if i < 0 {
			return true
		}
		budget--
		if budget < 0 {
			return false
		}
		paired[i] = true
		for _, j := range candidates(i, ids, paired, scores, opps) {
			paired[j] = true
			pairs = append(pairs, pairing{a: ids[i], b: ids[j]})
			if walk() {
				return true
			}
			pairs = pairs[:len(pairs)-1]
			paired[j] = false
		}
		paired[i] = false
		return false
	}

	if !walk() {
		return nil, false
	}
	return pairs, true
}
