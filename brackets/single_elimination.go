package brackets

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/Dosada05/competition-engine/models"
)

// Match positions inside a FinalAndThird round.
const (
	FinalMatch      = 0
	ThirdPlaceMatch = 1
)

// BuildBracket lays out a single-elimination bracket from a seeded player list
// (strongest first). The nextPow2(n)-n strongest seeds receive byes and are
// never shuffled; the remaining players are shuffled with rng (a nil rng keeps
// their order). Bye holders are spread across the bracket by arrangeFirstRound.
// Bye matches are resolved immediately and propagated.
func BuildBracket(players []models.Player, rng *rand.Rand) (models.Bracket, error) {
	if err := validateRoster(players); err != nil {
		return models.Bracket{}, err
	}

	n := len(players)
	size := nextPow2(n)
	numByes := size - n

	others := append([]models.Player(nil), players[numByes:]...)
	shuffle(others, rng)

	byes := make([]models.Match, 0, numByes)
	for _, p := range players[:numByes] {
		byes = append(byes, models.Match{Slots: [2]models.Slot{models.PlayerSlot(p.ID), models.ByeSlot()}})
	}
	played := make([]models.Match, 0, len(others)/2)
	for i := 0; i+1 < len(others); i += 2 {
		played = append(played, models.Match{Slots: [2]models.Slot{models.PlayerSlot(others[i].ID), models.PlayerSlot(others[i+1].ID)}})
	}
	first := arrangeFirstRound(byes, played)

	b := models.Bracket{Size: size, Rounds: layoutRounds(size)}
	for i := range first {
		first[i].ID = b.Rounds[0].Matches[i].ID
		autoResolve(&first[i])
	}
	b.Rounds[0].Matches = first
	propagate(b.Rounds, 0)
	return b, nil
}

// feeder is two adjacent first-round matches whose winners meet in round two.
// rank is the seed index of its strongest bye holder; pairs without byes rank
// after every seed.
type feeder struct {
	matches [2]models.Match
	rank    int
}

// arrangeFirstRound orders first-round matches so seeds 1 and 2 land in
// opposite halves. The weakest bye holders wait for the winners of played
// matches; leftover bye holders meet each other strongest against weakest.
// byes must be ordered strongest first.
func arrangeFirstRound(byes, played []models.Match) []models.Match {
	if len(byes) == 0 || len(byes)+len(played) < 4 {
		return append(byes, played...)
	}

	feeders := make([]feeder, 0, (len(byes)+len(played))/2)
	b, p := len(byes), 0
	for b > 0 && p < len(played) {
		b--
		feeders = append(feeders, feeder{matches: [2]models.Match{byes[b], played[p]}, rank: b})
		p++
	}
	for lo, hi := 0, b-1; lo < hi; lo, hi = lo+1, hi-1 {
		feeders = append(feeders, feeder{matches: [2]models.Match{byes[lo], byes[hi]}, rank: lo})
	}
	for ; p+1 < len(played); p += 2 {
		feeders = append(feeders, feeder{matches: [2]models.Match{played[p], played[p+1]}, rank: len(byes) + p})
	}
	slices.SortStableFunc(feeders, func(x, y feeder) int { return cmp.Compare(x.rank, y.rank) })

	first := make([]models.Match, 0, 2*len(feeders))
	for _, rank := range spreadOrder(len(feeders)) {
		first = append(first, feeders[rank].matches[:]...)
	}
	return first
}

// spreadOrder returns the standard seeding order for m slots (a power of
// two): slot i holds rank order[i], and ranks 0 and 1 sit in opposite halves.
func spreadOrder(m int) []int {
	order := []int{0}
	for len(order) < m {
		n := 2 * len(order)
		next := make([]int, 0, n)
		for _, r := range order {
			next = append(next, r, n-1-r)
		}
		order = next
	}
	return order
}

// layoutRounds creates the empty round skeleton for a bracket of size slots.
func layoutRounds(size int) []models.Round {
	if size == 2 {
		return []models.Round{newRound(0, models.RoundFinal, "final", 1)}
	}

	var rounds []models.Round
	for count := size / 2; count >= 2; count /= 2 {
		idx := len(rounds)
		if count == 2 {
			rounds = append(rounds, newRound(idx, models.RoundSemiFinal, "semifinal", count))
			continue
		}
		rounds = append(rounds, newRound(idx, models.RoundStandard, fmt.Sprintf("%d-player round", count*2), count))
	}
	return append(rounds, newRound(len(rounds), models.RoundFinalAndThird, "final & third place", 2))
}

func newRound(idx int, kind models.RoundKind, title string, matches int) models.Round {
	r := models.Round{Kind: kind, Title: title, Matches: make([]models.Match, matches)}
	for i := range r.Matches {
		r.Matches[i] = models.Match{
			ID:    fmt.Sprintf("R%dM%d", idx+1, i+1),
			Slots: [2]models.Slot{models.EmptySlot(), models.EmptySlot()},
		}
	}
	return r
}

// propagate clears every round after from and refills them round by round.
func propagate(rounds []models.Round, from int) {
	for r := from + 1; r < len(rounds); r++ {
		for i := range rounds[r].Matches {
			rounds[r].Matches[i].Slots = [2]models.Slot{models.EmptySlot(), models.EmptySlot()}
			rounds[r].Matches[i].Winner = nil
		}
	}
	for r := from; r+1 < len(rounds); r++ {
		advance(rounds[r], &rounds[r+1])
	}
}

func advance(cur models.Round, next *models.Round) {
	switch next.Kind {
	case models.RoundFinalAndThird:
		final := &next.Matches[FinalMatch]
		third := &next.Matches[ThirdPlaceMatch]
		for i, m := range cur.Matches {
			final.Slots[i] = winnerSlot(m)
			third.Slots[i] = m.Loser()
		}
	default:
		for i, m := range cur.Matches {
			next.Matches[i/2].Slots[i%2] = winnerSlot(m)
		}
	}
	for i := range next.Matches {
		autoResolve(&next.Matches[i])
	}
}

func winnerSlot(m models.Match) models.Slot {
	if m.Winner == nil {
		return models.EmptySlot()
	}
	return models.PlayerSlot(*m.Winner)
}

// SetBracketWinner records playerID as the winner of a match, or clears the
// result when playerID already is the winner. Every later round is reset and
// re-propagated from the updated round.
func SetBracketWinner(b models.Bracket, roundIdx, matchIdx, playerID int) (models.Bracket, error) {
	if roundIdx < 0 || roundIdx >= len(b.Rounds) {
		return b, fmt.Errorf("%w: round %d", models.ErrUnknownReference, roundIdx)
	}
	if matchIdx < 0 || matchIdx >= len(b.Rounds[roundIdx].Matches) {
		return b, fmt.Errorf("%w: match %d in round %d", models.ErrUnknownReference, matchIdx, roundIdx)
	}

	next := b.Clone()
	if err := setToggle(&next.Rounds[roundIdx].Matches[matchIdx], &playerID); err != nil {
		return b, err
	}
	propagate(next.Rounds, roundIdx)
	return next, nil
}

// FindBracketMatch locates a match by its ID.
func FindBracketMatch(b models.Bracket, matchID string) (roundIdx, matchIdx int, err error) {
	for r, round := range b.Rounds {
		for i, m := range round.Matches {
			if m.ID == matchID {
				return r, i, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: match %s", models.ErrUnknownReference, matchID)
}

// ResetBracket clears every decided result except bye resolutions.
func ResetBracket(b models.Bracket) models.Bracket {
	if len(b.Rounds) == 0 {
		return b
	}
	next := b.Clone()
	for i := range next.Rounds[0].Matches {
		if !next.Rounds[0].Matches[i].IsBye() {
			next.Rounds[0].Matches[i].Winner = nil
		}
	}
	propagate(next.Rounds, 0)
	return next
}

func BracketStatus(b models.Bracket) models.Status {
	if len(b.Rounds) == 0 {
		return models.StatusNotStarted
	}
	if b.Rounds[len(b.Rounds)-1].Resolved() {
		return models.StatusFinished
	}
	return models.StatusInProgress
}

// BracketStandings ranks a finished bracket: the terminal round decides the
// top places, then players are grouped by the round they were eliminated in,
// later exits first. Players eliminated in the same round share a place.
func BracketStandings(b models.Bracket) ([]models.Standing, error) {
	if BracketStatus(b) != models.StatusFinished {
		return nil, fmt.Errorf("%w: bracket is not finished", models.ErrPrecondPending)
	}

	wins := Scores(b.Rounds)
	var out []models.Standing
	add := func(s models.Slot, place int) {
		if s.IsPlayer() {
			out = append(out, models.Standing{Place: place, PlayerID: s.PlayerID, Score: wins[s.PlayerID]})
		}
	}

	last := len(b.Rounds) - 1
	terminal := b.Rounds[last]
	final := terminal.Matches[FinalMatch]
	add(winnerSlot(final), 1)
	add(final.Loser(), 2)

	remaining := last - 1
	if terminal.Kind == models.RoundFinalAndThird {
		third := terminal.Matches[ThirdPlaceMatch]
		add(winnerSlot(third), 3)
		add(third.Loser(), 4)
		// Semifinal losers are already placed through the third-place match.
		remaining = last - 2
	}

	for r := remaining; r >= 0; r-- {
		place := len(out) + 1
		for _, m := range b.Rounds[r].Matches {
			add(m.Loser(), place)
		}
	}
	return out, nil
}
