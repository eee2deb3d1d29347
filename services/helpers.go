package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/repositories"
)

// rngFor derives the random source of the next operation on a run. The same
// run state always yields the same draws.
func rngFor(run *models.Tournament) *rand.Rand {
	return rand.New(rand.NewSource(run.Seed + int64(run.Version)))
}

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrRunNotFound):
		return ErrRunNotFound
	case errors.Is(err, repositories.ErrRunVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, repositories.ErrRunNameConflict):
		return ErrRunNameConflict
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrRatedPlayerInvalid):
		return fmt.Errorf("%w: %v", ErrPlayerNotFound, err)
	case errors.Is(err, repositories.ErrRatedPlayerConflict):
		return ErrRatedPlayerConflict
	default:
		return err
	}
}
