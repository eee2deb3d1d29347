package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/competition-engine/models"
)

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name    string
		ratingA int
		ratingB int
		outcome models.Outcome
		k       int
		want    int
	}{
		{name: "equal ratings, A wins", ratingA: 1000, ratingB: 1000, outcome: models.OutcomeAWin, k: 32, want: 16},
		{name: "equal ratings, B wins", ratingA: 1000, ratingB: 1000, outcome: models.OutcomeBWin, k: 32, want: -16},
		{name: "equal ratings, draw", ratingA: 1000, ratingB: 1000, outcome: models.OutcomeDraw, k: 32, want: 0},
		{name: "favourite wins", ratingA: 1400, ratingB: 1000, outcome: models.OutcomeAWin, k: 32, want: 3},
		{name: "underdog wins", ratingA: 1000, ratingB: 1400, outcome: models.OutcomeAWin, k: 32, want: 29},
		{name: "draw against stronger", ratingA: 1000, ratingB: 1400, outcome: models.OutcomeDraw, k: 32, want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDelta(tt.ratingA, tt.ratingB, tt.outcome, tt.k))
		})
	}
}

func TestComputeDeltaIsZeroSum(t *testing.T) {
	outcomes := []models.Outcome{models.OutcomeAWin, models.OutcomeBWin, models.OutcomeDraw}
	for ra := 600; ra <= 2400; ra += 137 {
		for rb := 600; rb <= 2400; rb += 151 {
			for _, o := range outcomes {
				delta := ComputeDelta(ra, rb, o, 32)
				newA := Apply(ra, delta)
				newB := Apply(rb, -delta)
				assert.Equal(t, ra+rb, newA+newB, "ra=%d rb=%d outcome=%s", ra, rb, o)
				assert.Equal(t, ra, Apply(newA, -delta))
				assert.Equal(t, rb, Apply(newB, delta))
			}
		}
	}
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
	assert.InDelta(t, 1.0/11.0, ExpectedScore(1000, 1400), 1e-9)
	assert.InDelta(t, 1.0, ExpectedScore(1000, 1400)+ExpectedScore(1400, 1000), 1e-9)
}
