package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/competition-engine/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
)

// PlayerRepository is the roster provider: it resolves player ids to the
// names and ranks used for seeding.
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByIDs(ctx context.Context, ids []int) ([]models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `INSERT INTO players (display_name, display_rank) VALUES ($1, $2) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.DisplayName, p.DisplayRank).Scan(&p.ID)
}

// GetByIDs returns the players in the order of ids. Any missing id fails the
// whole lookup with ErrPlayerNotFound.
func (r *postgresPlayerRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	query := `SELECT id, display_name, display_rank FROM players WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]models.Player, len(ids))
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.DisplayRank); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrPlayerNotFound, id)
		}
		players = append(players, p)
	}
	return players, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, display_name, display_rank FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.DisplayRank); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
