package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/competition-engine/models"
)

// StandingsSnapshot is the document handed to the external reward ledger.
type StandingsSnapshot struct {
	RunID      int               `json:"run_id"`
	Name       string            `json:"name"`
	Format     models.FormatKind `json:"format"`
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Standings  []models.Standing `json:"standings"`
}

type StandingsExporter interface {
	// Export publishes the standings of a finished run and returns their URL.
	Export(ctx context.Context, run *models.Tournament, standings []models.Standing) (string, error)
	// Withdraw removes a published snapshot once the run is no longer finished.
	Withdraw(ctx context.Context, runID int) error
}

type bucketExporter struct {
	store ObjectStore
	now   func() time.Time
}

func NewStandingsExporter(store ObjectStore) StandingsExporter {
	return &bucketExporter{store: store, now: time.Now}
}

func StandingsKey(runID int) string {
	return fmt.Sprintf("standings/run_%d.json", runID)
}

func (e *bucketExporter) Export(ctx context.Context, run *models.Tournament, standings []models.Standing) (string, error) {
	snapshot := StandingsSnapshot{
		RunID:      run.ID,
		Name:       run.Name,
		Format:     run.Format,
		Version:    run.Version,
		ExportedAt: e.now().UTC(),
		Standings:  standings,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode standings for run %d: %w", run.ID, err)
	}

	key := StandingsKey(run.ID)
	if err := e.store.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return "", err
	}
	return e.store.PublicURL(key), nil
}

func (e *bucketExporter) Withdraw(ctx context.Context, runID int) error {
	return e.store.Remove(ctx, StandingsKey(runID))
}
