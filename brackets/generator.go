package brackets

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/Dosada05/competition-engine/models"
)

// GenerateParams carries everything a format needs to produce its first state.
type GenerateParams struct {
	Players    []models.Player
	Seeding    models.Seeding
	GroupCount int
	Rng        *rand.Rand
}

// Generator starts a run of one format. The returned tournament has only the
// format state and status set.
type Generator interface {
	Generate(params GenerateParams) (models.Tournament, error)
	Format() models.FormatKind
}

type bracketGenerator struct{}
type swissGenerator struct{}
type hybridGenerator struct{}

func NewGenerator(format models.FormatKind) (Generator, error) {
	switch format {
	case models.FormatBracket:
		return bracketGenerator{}, nil
	case models.FormatSwiss:
		return swissGenerator{}, nil
	case models.FormatHybrid:
		return hybridGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", models.ErrInvalidOperand, format)
	}
}

func (bracketGenerator) Format() models.FormatKind { return models.FormatBracket }

// Generate seeds the roster before laying out the bracket; with random
// seeding the byes go to random players.
func (g bracketGenerator) Generate(params GenerateParams) (models.Tournament, error) {
	if err := validateRoster(params.Players); err != nil {
		return models.Tournament{}, err
	}
	b, err := BuildBracket(SeedPlayers(params.Players, params.Seeding, params.Rng), params.Rng)
	if err != nil {
		return models.Tournament{}, err
	}
	return models.Tournament{Format: g.Format(), Status: BracketStatus(b), Bracket: &b}, nil
}

func (swissGenerator) Format() models.FormatKind { return models.FormatSwiss }

func (g swissGenerator) Generate(params GenerateParams) (models.Tournament, error) {
	run, err := StartSwiss(params.Players, params.Seeding, params.Rng)
	if err != nil {
		return models.Tournament{}, err
	}
	return models.Tournament{Format: g.Format(), Status: SwissStatus(run), Swiss: &run}, nil
}

func (hybridGenerator) Format() models.FormatKind { return models.FormatHybrid }

func (g hybridGenerator) Generate(params GenerateParams) (models.Tournament, error) {
	run, err := StartHybrid(params.Players, params.GroupCount, params.Seeding, params.Rng)
	if err != nil {
		return models.Tournament{}, err
	}
	return models.Tournament{Format: g.Format(), Status: HybridStatus(run), Hybrid: &run}, nil
}

// RunStatus derives the status of whichever format state t holds.
func RunStatus(t models.Tournament) models.Status {
	switch {
	case t.Bracket != nil:
		return BracketStatus(*t.Bracket)
	case t.Swiss != nil:
		return SwissStatus(*t.Swiss)
	case t.Hybrid != nil:
		return HybridStatus(*t.Hybrid)
	}
	return models.StatusNotStarted
}

// FinalStandings returns the final ranking of a run that can be read out.
func FinalStandings(t models.Tournament) ([]models.Standing, error) {
	switch {
	case t.Bracket != nil:
		return BracketStandings(*t.Bracket)
	case t.Swiss != nil:
		return SwissFinalStandings(*t.Swiss)
	case t.Hybrid != nil:
		return HybridStandings(*t.Hybrid)
	}
	return nil, fmt.Errorf("%w: run has not started", models.ErrPrecondPending)
}

// validateRoster rejects rosters that no format can run.
func validateRoster(players []models.Player) error {
	if len(players) < 2 {
		return fmt.Errorf("%w: need at least 2 players, got %d", models.ErrInsufficientParticipants, len(players))
	}
	seen := make(map[int]struct{}, len(players))
	for _, p := range players {
		if p.ID <= 0 {
			return fmt.Errorf("%w: player id must be positive, got %d", models.ErrInvalidOperand, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: player %d listed twice", models.ErrInvalidOperand, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// SeedPlayers orders players strongest first by DisplayRank (ties keep roster
// order) or shuffles them. The input slice is not modified.
func SeedPlayers(players []models.Player, seeding models.Seeding, rng *rand.Rand) []models.Player {
	out := append([]models.Player(nil), players...)
	switch seeding {
	case models.SeedingRandom:
		shuffle(out, rng)
	default:
		slices.SortStableFunc(out, func(a, b models.Player) int {
			return cmp.Compare(b.DisplayRank, a.DisplayRank)
		})
	}
	return out
}

// shuffle is a no-op when rng is nil so callers can request a fixed order.
func shuffle[T any](items []T, rng *rand.Rand) {
	if rng == nil {
		return
	}
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func intPtr(v int) *int { return &v }

// setToggle applies toggle semantics to a match between two players: naming
// the current winner clears it, and a nil winner always clears.
func setToggle(m *models.Match, winner *int) error {
	if winner != nil && !m.HasPlayer(*winner) {
		return fmt.Errorf("%w: player %d is not in match %s", models.ErrInvalidOperand, *winner, m.ID)
	}
	if !m.Decidable() {
		return fmt.Errorf("%w: match %s is not between two players", models.ErrInvalidOperand, m.ID)
	}
	if winner == nil || (m.Winner != nil && *m.Winner == *winner) {
		m.Winner = nil
		return nil
	}
	m.Winner = intPtr(*winner)
	return nil
}

// autoResolve marks the real player of a bye match as its winner.
func autoResolve(m *models.Match) {
	if !m.IsBye() {
		return
	}
	for _, s := range m.Slots {
		if s.IsPlayer() {
			m.Winner = intPtr(s.PlayerID)
		}
	}
}
