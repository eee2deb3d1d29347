package rating

import (
	"math"

	"github.com/Dosada05/competition-engine/models"
)

const (
	DefaultKFactor = 32
	DefaultRating  = 1000
)

// ExpectedScore is the probability-like expectation of A against B on the
// standard 400-point logistic curve.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
}

func actualScore(outcome models.Outcome) float64 {
	switch outcome {
	case models.OutcomeAWin:
		return 1.0
	case models.OutcomeBWin:
		return 0.0
	default:
		return 0.5
	}
}

// ComputeDelta returns the rating change for A. B's change is exactly -delta,
// so a duel never creates or destroys rating points.
func ComputeDelta(ratingA, ratingB int, outcome models.Outcome, kFactor int) int {
	expected := ExpectedScore(ratingA, ratingB)
	return int(math.Round(float64(kFactor) * (actualScore(outcome) - expected)))
}

// Apply adds delta to rating. Reversal is Apply(rating, -delta).
func Apply(rating, delta int) int {
	return rating + delta
}
