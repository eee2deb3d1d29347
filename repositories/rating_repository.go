package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/competition-engine/models"
)

var (
	ErrRatedPlayerConflict = errors.New("player already has a rating")
	ErrRatedPlayerInvalid  = errors.New("invalid player reference")
)

// RatingRepository stores the rated pool and the append-only duel log. Records
// are returned in the order they were recorded.
type RatingRepository interface {
	CreatePlayer(ctx context.Context, player models.RatedPlayer) error
	ListPlayers(ctx context.Context) ([]models.RatedPlayer, error)
	ListRecords(ctx context.Context) ([]models.RatingRecord, error)
	// SaveRecords inserts new records and overwrites existing ones in a
	// single transaction.
	SaveRecords(ctx context.Context, records []models.RatingRecord) error
}

type postgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) CreatePlayer(ctx context.Context, p models.RatedPlayer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rating_players (player_id, initial_rating) VALUES ($1, $2)`,
		p.PlayerID, p.InitialRating,
	)
	if _, ok := pqViolation(err, pqUniqueViolation); ok {
		return ErrRatedPlayerConflict
	}
	if _, ok := pqViolation(err, pqForeignKeyViolation); ok {
		return ErrRatedPlayerInvalid
	}
	return err
}

func (r *postgresRatingRepository) ListPlayers(ctx context.Context) ([]models.RatedPlayer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT player_id, initial_rating FROM rating_players ORDER BY player_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.RatedPlayer, 0)
	for rows.Next() {
		var p models.RatedPlayer
		if err := rows.Scan(&p.PlayerID, &p.InitialRating); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresRatingRepository) ListRecords(ctx context.Context) ([]models.RatingRecord, error) {
	query := `
		SELECT id, player_a, player_b, outcome, rating_a, rating_b, delta, k_factor, status, created_at
		FROM rating_records
		ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.RatingRecord, 0)
	for rows.Next() {
		var rec models.RatingRecord
		if err := rows.Scan(
			&rec.ID, &rec.PlayerA, &rec.PlayerB, &rec.Outcome, &rec.RatingA, &rec.RatingB,
			&rec.Delta, &rec.KFactor, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresRatingRepository) SaveRecords(ctx context.Context, records []models.RatingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return saveRecords(ctx, tx, records)
	})
}

func saveRecords(ctx context.Context, exec SQLExecutor, records []models.RatingRecord) error {
	query := `
		INSERT INTO rating_records (id, player_a, player_b, outcome, rating_a, rating_b, delta, k_factor, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			rating_a = EXCLUDED.rating_a,
			rating_b = EXCLUDED.rating_b,
			delta = EXCLUDED.delta,
			status = EXCLUDED.status`

	for _, rec := range records {
		_, err := exec.ExecContext(ctx, query,
			rec.ID, rec.PlayerA, rec.PlayerB, rec.Outcome, rec.RatingA, rec.RatingB,
			rec.Delta, rec.KFactor, rec.Status, rec.CreatedAt,
		)
		if _, ok := pqViolation(err, pqForeignKeyViolation); ok {
			return fmt.Errorf("%w: record %s", ErrRatedPlayerInvalid, rec.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
		}
	}
	return nil
}
