package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/repositories"
)

type CreatePlayerInput struct {
	DisplayName string `json:"display_name"`
	DisplayRank int    `json:"display_rank"`
}

// PlayerService maintains the roster that runs draw their players from.
type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
}

type playerService struct {
	players repositories.PlayerRepository
	logger  *slog.Logger
}

func NewPlayerService(players repositories.PlayerRepository, logger *slog.Logger) PlayerService {
	return &playerService{players: players, logger: logger}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrValidationFailed)
	}
	p := &models.Player{DisplayName: name, DisplayRank: input.DisplayRank}
	if err := s.players.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	s.logger.InfoContext(ctx, "player created", slog.Int("player_id", p.ID), slog.String("name", p.DisplayName))
	return p, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}
