package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/rating"
	"github.com/Dosada05/competition-engine/realtime"
	"github.com/Dosada05/competition-engine/repositories"
)

type RecordDuelInput struct {
	PlayerA int            `json:"player_a"`
	PlayerB int            `json:"player_b"`
	Outcome models.Outcome `json:"outcome"`
}

type PlayerRating struct {
	PlayerID int `json:"player_id"`
	Rating   int `json:"rating"`
}

type DuelService interface {
	// RegisterPlayer enters a roster player into the rated pool. A nil
	// initialRating uses the configured default.
	RegisterPlayer(ctx context.Context, playerID int, initialRating *int) (*models.RatedPlayer, error)
	RecordDuel(ctx context.Context, input RecordDuelInput) (*models.RatingRecord, error)
	// CancelDuel returns the cancelled record followed by every later record
	// whose ratings changed.
	CancelDuel(ctx context.Context, recordID string) ([]models.RatingRecord, error)
	Ratings(ctx context.Context) ([]PlayerRating, error)
	Records(ctx context.Context) ([]models.RatingRecord, error)
}

type duelService struct {
	ratings       repositories.RatingRepository
	broadcaster   realtime.Broadcaster
	logger        *slog.Logger
	kFactor       int
	defaultRating int
	now           func() time.Time
	newID         func() string

	// mu serializes writers; the duel log has a single global order.
	mu sync.Mutex
}

func NewDuelService(
	ratings repositories.RatingRepository,
	broadcaster realtime.Broadcaster,
	logger *slog.Logger,
	kFactor, defaultRating int,
) DuelService {
	return &duelService{
		ratings:       ratings,
		broadcaster:   broadcaster,
		logger:        logger,
		kFactor:       kFactor,
		defaultRating: defaultRating,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// loadLedger reads the rated pool and the duel log in parallel.
func (s *duelService) loadLedger(ctx context.Context) (*rating.Ledger, error) {
	var (
		players []models.RatedPlayer
		records []models.RatingRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.ratings.ListPlayers(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load rated players: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.ratings.ListRecords(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load duel records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rating.NewLedger(s.kFactor, players, records), nil
}

func (s *duelService) RegisterPlayer(ctx context.Context, playerID int, initialRating *int) (*models.RatedPlayer, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be positive", ErrValidationFailed)
	}
	p := models.RatedPlayer{PlayerID: playerID, InitialRating: s.defaultRating}
	if initialRating != nil {
		p.InitialRating = *initialRating
	}
	if err := s.ratings.CreatePlayer(ctx, p); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "player rated", slog.Int("player_id", playerID), slog.Int("rating", p.InitialRating))
	return &p, nil
}

func (s *duelService) RecordDuel(ctx context.Context, input RecordDuelInput) (*models.RatingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := ledger.Record(s.newID(), input.PlayerA, input.PlayerB, input.Outcome, s.now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrUnknownReference) {
			return nil, fmt.Errorf("%w: %v", ErrPlayerNotFound, err)
		}
		return nil, err
	}
	if err := s.ratings.SaveRecords(ctx, []models.RatingRecord{rec}); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "duel recorded",
		slog.String("record_id", rec.ID),
		slog.Int("player_a", rec.PlayerA),
		slog.Int("player_b", rec.PlayerB),
		slog.Int("delta", rec.Delta),
	)
	s.broadcaster.BroadcastToRoom(realtime.RatingsRoom, realtime.Message{Type: realtime.MessageRatingChanged, Payload: rec})
	return &rec, nil
}

func (s *duelService) CancelDuel(ctx context.Context, recordID string) ([]models.RatingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	changed, err := ledger.Cancel(recordID)
	if err != nil {
		if errors.Is(err, models.ErrUnknownReference) {
			return nil, fmt.Errorf("%w: %s", ErrDuelNotFound, recordID)
		}
		return nil, err
	}
	if err := s.ratings.SaveRecords(ctx, changed); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "duel cancelled",
		slog.String("record_id", recordID),
		slog.Int("replayed", len(changed)-1),
	)
	s.broadcaster.BroadcastToRoom(realtime.RatingsRoom, realtime.Message{Type: realtime.MessageRatingChanged, Payload: changed})
	return changed, nil
}

func (s *duelService) Ratings(ctx context.Context) ([]PlayerRating, error) {
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlayerRating, 0)
	for id, r := range ledger.Ratings() {
		out = append(out, PlayerRating{PlayerID: id, Rating: r})
	}
	slices.SortFunc(out, func(a, b PlayerRating) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out, nil
}

func (s *duelService) Records(ctx context.Context) ([]models.RatingRecord, error) {
	records, err := s.ratings.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load duel records: %w", err)
	}
	return records, nil
}
