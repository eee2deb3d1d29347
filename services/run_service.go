package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/Dosada05/competition-engine/brackets"
	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/realtime"
	"github.com/Dosada05/competition-engine/repositories"
	"github.com/Dosada05/competition-engine/storage"
)

type CreateRunInput struct {
	Name       string         `json:"name"`
	PlayerIDs  []int          `json:"player_ids"`
	Seeding    models.Seeding `json:"seeding,omitempty"`
	GroupCount int            `json:"group_count,omitempty"`
	// Seed fixes the random source; when nil a fresh one is drawn.
	Seed *int64 `json:"seed,omitempty"`
}

// RunRef addresses a run for a command. A non-zero Version must match the
// stored version or the command fails with ErrVersionConflict.
type RunRef struct {
	ID      int
	Version int
}

type RunService interface {
	BuildBracket(ctx context.Context, input CreateRunInput) (*models.Tournament, error)
	StartSwiss(ctx context.Context, input CreateRunInput) (*models.Tournament, error)
	StartHybrid(ctx context.Context, input CreateRunInput) (*models.Tournament, error)

	GetRun(ctx context.Context, id int) (*models.Tournament, error)
	ListRuns(ctx context.Context, filter repositories.ListRunsFilter) ([]models.Tournament, error)
	FinalStandings(ctx context.Context, id int) ([]models.Standing, error)
	// GroupStandings ranks each preliminary group of a hybrid run by wins.
	GroupStandings(ctx context.Context, id int) ([][]models.Standing, error)

	SetBracketWinner(ctx context.Context, ref RunRef, matchID string, playerID int) (*models.Tournament, error)
	ResetBracket(ctx context.Context, ref RunRef) (*models.Tournament, error)

	SetSwissResult(ctx context.Context, ref RunRef, matchID string, winner *int) (*models.Tournament, error)
	NextSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error)
	CancelLastSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error)
	ReshuffleLastSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error)

	SetPreliminaryResult(ctx context.Context, ref RunRef, matchID string, winner *int) (*models.Tournament, error)
	AdvanceToBracket(ctx context.Context, ref RunRef, advanceCount int) (*models.Tournament, error)
}

type runService struct {
	runs        repositories.RunRepository
	players     repositories.PlayerRepository
	broadcaster realtime.Broadcaster
	exporter    storage.StandingsExporter
	logger      *slog.Logger
	newSeed     func() int64
}

// NewRunService wires the command surface. exporter may be nil, in which case
// finished standings are not published.
func NewRunService(
	runs repositories.RunRepository,
	players repositories.PlayerRepository,
	broadcaster realtime.Broadcaster,
	exporter storage.StandingsExporter,
	logger *slog.Logger,
) RunService {
	return &runService{
		runs:        runs,
		players:     players,
		broadcaster: broadcaster,
		exporter:    exporter,
		logger:      logger,
		newSeed:     func() int64 { return time.Now().UnixNano() },
	}
}

func (s *runService) BuildBracket(ctx context.Context, input CreateRunInput) (*models.Tournament, error) {
	return s.create(ctx, models.FormatBracket, input)
}

func (s *runService) StartSwiss(ctx context.Context, input CreateRunInput) (*models.Tournament, error) {
	return s.create(ctx, models.FormatSwiss, input)
}

func (s *runService) StartHybrid(ctx context.Context, input CreateRunInput) (*models.Tournament, error) {
	return s.create(ctx, models.FormatHybrid, input)
}

func (s *runService) create(ctx context.Context, format models.FormatKind, input CreateRunInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	seeding := input.Seeding
	if seeding == "" {
		seeding = models.SeedingRanked
	}
	if !seeding.Valid() {
		return nil, fmt.Errorf("%w: unknown seeding %q", ErrValidationFailed, input.Seeding)
	}

	players, err := s.players.GetByIDs(ctx, input.PlayerIDs)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	gen, err := brackets.NewGenerator(format)
	if err != nil {
		return nil, err
	}
	seed := s.newSeed()
	if input.Seed != nil {
		seed = *input.Seed
	}
	run, err := gen.Generate(brackets.GenerateParams{
		Players:    players,
		Seeding:    seeding,
		GroupCount: input.GroupCount,
		Rng:        rngFor(&models.Tournament{Seed: seed}),
	})
	if err != nil {
		return nil, err
	}
	run.Name = name
	run.Seed = seed

	if err := s.runs.Create(ctx, &run); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "run created",
		slog.Int("run_id", run.ID),
		slog.String("format", string(run.Format)),
		slog.Int("players", len(players)),
	)
	s.publish(ctx, &run, models.StatusNotStarted)
	return &run, nil
}

func (s *runService) GetRun(ctx context.Context, id int) (*models.Tournament, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return run, nil
}

func (s *runService) ListRuns(ctx context.Context, filter repositories.ListRunsFilter) ([]models.Tournament, error) {
	runs, err := s.runs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (s *runService) FinalStandings(ctx context.Context, id int) ([]models.Standing, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return brackets.FinalStandings(*run)
}

func (s *runService) GroupStandings(ctx context.Context, id int) ([][]models.Standing, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Format != models.FormatHybrid || run.Hybrid == nil {
		return nil, fmt.Errorf("%w: group standings on a %s run", ErrFormatMismatch, run.Format)
	}
	return brackets.GroupStandings(*run.Hybrid), nil
}

func (s *runService) SetBracketWinner(ctx context.Context, ref RunRef, matchID string, playerID int) (*models.Tournament, error) {
	return s.mutate(ctx, ref, "set_bracket_winner", []models.FormatKind{models.FormatBracket, models.FormatHybrid},
		func(run *models.Tournament, _ *rand.Rand) error {
			if run.Format == models.FormatHybrid {
				if run.Hybrid.Bracket == nil {
					return fmt.Errorf("%w: finals bracket not generated", models.ErrPrecondPending)
				}
				r, m, err := brackets.FindBracketMatch(*run.Hybrid.Bracket, matchID)
				if err != nil {
					return err
				}
				next, err := brackets.SetHybridBracketWinner(*run.Hybrid, r, m, playerID)
				if err != nil {
					return err
				}
				run.Hybrid = &next
				return nil
			}
			r, m, err := brackets.FindBracketMatch(*run.Bracket, matchID)
			if err != nil {
				return err
			}
			next, err := brackets.SetBracketWinner(*run.Bracket, r, m, playerID)
			if err != nil {
				return err
			}
			run.Bracket = &next
			return nil
		})
}

func (s *runService) ResetBracket(ctx context.Context, ref RunRef) (*models.Tournament, error) {
	return s.mutate(ctx, ref, "reset_bracket", []models.FormatKind{models.FormatBracket, models.FormatHybrid},
		func(run *models.Tournament, _ *rand.Rand) error {
			if run.Format == models.FormatHybrid {
				next, err := brackets.ResetHybridBracket(*run.Hybrid)
				if err != nil {
					return err
				}
				run.Hybrid = &next
				return nil
			}
			next := brackets.ResetBracket(*run.Bracket)
			run.Bracket = &next
			return nil
		})
}

// swissRoundOf finds the round holding matchID, defaulting to the latest so
// unknown ids are reported by the engine.
func swissRoundOf(run models.SwissRun, matchID string) int {
	for i, r := range run.Rounds {
		if slices.ContainsFunc(r.Matches, func(m models.Match) bool { return m.ID == matchID }) {
			return i
		}
	}
	return len(run.Rounds) - 1
}

func (s *runService) SetSwissResult(ctx context.Context, ref RunRef, matchID string, winner *int) (*models.Tournament, error) {
	return s.mutateSwiss(ctx, ref, "set_swiss_result", func(run models.SwissRun, _ *rand.Rand) (models.SwissRun, error) {
		return brackets.SetSwissResult(run, swissRoundOf(run, matchID), matchID, winner)
	})
}

func (s *runService) NextSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error) {
	return s.mutateSwiss(ctx, ref, "generate_next_swiss_round", brackets.NextSwissRound)
}

func (s *runService) CancelLastSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error) {
	return s.mutateSwiss(ctx, ref, "cancel_last_swiss_round", func(run models.SwissRun, _ *rand.Rand) (models.SwissRun, error) {
		return brackets.CancelLastSwissRound(run)
	})
}

func (s *runService) ReshuffleLastSwissRound(ctx context.Context, ref RunRef) (*models.Tournament, error) {
	return s.mutateSwiss(ctx, ref, "reshuffle_last_swiss_round", brackets.ReshuffleLastSwissRound)
}

func (s *runService) mutateSwiss(ctx context.Context, ref RunRef, op string, apply func(models.SwissRun, *rand.Rand) (models.SwissRun, error)) (*models.Tournament, error) {
	return s.mutate(ctx, ref, op, []models.FormatKind{models.FormatSwiss}, func(run *models.Tournament, rng *rand.Rand) error {
		next, err := apply(*run.Swiss, rng)
		if err != nil {
			return err
		}
		run.Swiss = &next
		return nil
	})
}

func (s *runService) SetPreliminaryResult(ctx context.Context, ref RunRef, matchID string, winner *int) (*models.Tournament, error) {
	return s.mutate(ctx, ref, "set_preliminary_result", []models.FormatKind{models.FormatHybrid},
		func(run *models.Tournament, _ *rand.Rand) error {
			next, err := brackets.SetPreliminaryResult(*run.Hybrid, matchID, winner)
			if err != nil {
				return err
			}
			run.Hybrid = &next
			return nil
		})
}

func (s *runService) AdvanceToBracket(ctx context.Context, ref RunRef, advanceCount int) (*models.Tournament, error) {
	return s.mutate(ctx, ref, "advance_hybrid_to_bracket", []models.FormatKind{models.FormatHybrid},
		func(run *models.Tournament, rng *rand.Rand) error {
			next, err := brackets.AdvanceToBracket(*run.Hybrid, advanceCount, rng)
			if err != nil {
				return err
			}
			run.Hybrid = &next
			return nil
		})
}

// mutate loads a run, applies one engine operation and stores the result
// under the version check. A rejected operation writes nothing.
func (s *runService) mutate(
	ctx context.Context,
	ref RunRef,
	op string,
	formats []models.FormatKind,
	apply func(run *models.Tournament, rng *rand.Rand) error,
) (*models.Tournament, error) {
	run, err := s.runs.GetByID(ctx, ref.ID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if ref.Version != 0 && ref.Version != run.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", ErrVersionConflict, ref.Version, run.Version)
	}
	if !slices.Contains(formats, run.Format) {
		return nil, fmt.Errorf("%w: %s on a %s run", ErrFormatMismatch, op, run.Format)
	}

	before := run.Status
	if err := apply(run, rngFor(run)); err != nil {
		s.logger.DebugContext(ctx, "run command rejected",
			slog.Int("run_id", run.ID), slog.String("op", op), slog.Any("error", err))
		return nil, err
	}
	run.Status = brackets.RunStatus(*run)

	if err := s.runs.Update(ctx, run); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "run updated",
		slog.Int("run_id", run.ID),
		slog.String("op", op),
		slog.Int("version", run.Version),
		slog.String("status", string(run.Status)),
	)
	s.publish(ctx, run, before)
	return run, nil
}

// publish notifies subscribers and keeps the exported standings in step with
// the run status. Failures here never fail the command.
func (s *runService) publish(ctx context.Context, run *models.Tournament, before models.Status) {
	room := realtime.RunRoom(run.ID)
	s.broadcaster.BroadcastToRoom(room, realtime.Message{Type: realtime.MessageRunUpdated, Payload: run})

	switch {
	case run.Status == models.StatusFinished:
		standings, err := brackets.FinalStandings(*run)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to compute final standings", slog.Int("run_id", run.ID), slog.Any("error", err))
			return
		}
		payload := map[string]interface{}{"standings": standings}
		if s.exporter != nil {
			location, err := s.exporter.Export(ctx, run, standings)
			if err != nil {
				s.logger.ErrorContext(ctx, "failed to export standings", slog.Int("run_id", run.ID), slog.Any("error", err))
			} else {
				payload["export_url"] = location
			}
		}
		s.broadcaster.BroadcastToRoom(room, realtime.Message{Type: realtime.MessageRunFinished, Payload: payload})

	case before == models.StatusFinished && s.exporter != nil:
		if err := s.exporter.Withdraw(ctx, run.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to withdraw standings", slog.Int("run_id", run.ID), slog.Any("error", err))
		}
	}
}
