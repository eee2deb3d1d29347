package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/competition-engine/models"
)

var (
	ErrRunNotFound        = errors.New("run not found")
	ErrRunNameConflict    = errors.New("run name already exists")
	ErrRunVersionConflict = errors.New("run was modified concurrently")
	ErrRunInvalidFormat   = errors.New("invalid run format")
)

type ListRunsFilter struct {
	Format *models.FormatKind
	Status *models.Status
	Limit  int
	Offset int
}

type RunRepository interface {
	Create(ctx context.Context, run *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListRunsFilter) ([]models.Tournament, error)
	// Update stores run if its Version still matches the stored one and bumps
	// run.Version on success.
	Update(ctx context.Context, run *models.Tournament) error
}

// runState is the JSONB payload: exactly one format state is set.
type runState struct {
	Bracket *models.Bracket   `json:"bracket,omitempty"`
	Swiss   *models.SwissRun  `json:"swiss,omitempty"`
	Hybrid  *models.HybridRun `json:"hybrid,omitempty"`
}

type postgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunRepository(db *sql.DB) RunRepository {
	return &postgresRunRepository{db: db}
}

func encodeState(t *models.Tournament) ([]byte, error) {
	state, err := json.Marshal(runState{Bracket: t.Bracket, Swiss: t.Swiss, Hybrid: t.Hybrid})
	if err != nil {
		return nil, fmt.Errorf("failed to encode run %d state: %w", t.ID, err)
	}
	return state, nil
}

func decodeState(t *models.Tournament, raw []byte) error {
	var state runState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("failed to decode run %d state: %w", t.ID, err)
	}
	t.Bracket, t.Swiss, t.Hybrid = state.Bracket, state.Swiss, state.Hybrid
	return nil
}

func (r *postgresRunRepository) Create(ctx context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO runs (name, format, status, seed, version, state)
		VALUES ($1, $2, $3, $4, 1, $5)
		RETURNING id, version, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query, t.Name, t.Format, t.Status, t.Seed, state).
		Scan(&t.ID, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	return r.handleRunError(err)
}

func (r *postgresRunRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, format, status, seed, version, state, created_at, updated_at
		FROM runs
		WHERE id = $1`

	t := &models.Tournament{}
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Format, &t.Status, &t.Seed, &t.Version, &raw, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	if err := decodeState(t, raw); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns run envelopes without their format state.
func (r *postgresRunRepository) List(ctx context.Context, filter ListRunsFilter) ([]models.Tournament, error) {
	query := `
		SELECT id, name, format, status, seed, version, created_at, updated_at
		FROM runs
		WHERE 1=1`

	args := []interface{}{}
	argID := 1
	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Format, &t.Status, &t.Seed, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *postgresRunRepository) Update(ctx context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.update(ctx, tx, t, state, now)
	})
	if err != nil {
		return err
	}
	t.Version++
	t.UpdatedAt = now
	return nil
}

// update writes state only while the stored version equals t.Version.
func (r *postgresRunRepository) update(ctx context.Context, exec SQLExecutor, t *models.Tournament, state []byte, now time.Time) error {
	query := `
		UPDATE runs SET
			status = $1,
			state = $2,
			version = version + 1,
			updated_at = $3
		WHERE id = $4 AND version = $5`

	result, err := exec.ExecContext(ctx, query, t.Status, state, now, t.ID, t.Version)
	if err != nil {
		return r.handleRunError(err)
	}
	err = checkAffectedRows(result, ErrRunVersionConflict)
	if !errors.Is(err, ErrRunVersionConflict) {
		return err
	}

	// No row matched: either the run is gone or someone else wrote first.
	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM runs WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRunNotFound
	}
	return ErrRunVersionConflict
}

func (r *postgresRunRepository) handleRunError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := pqViolation(err, pqUniqueViolation); ok && constraint == "runs_name_key" {
		return ErrRunNameConflict
	}
	if _, ok := pqViolation(err, pqCheckViolation); ok {
		return ErrRunInvalidFormat
	}
	return err
}
