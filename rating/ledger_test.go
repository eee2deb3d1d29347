package rating

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/competition-engine/models"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, ratings map[int]int) *Ledger {
	t.Helper()
	l := NewLedger(32, nil, nil)
	for id := 1; id <= len(ratings); id++ {
		require.NoError(t, l.Register(id, ratings[id]))
	}
	return l
}

func TestLedgerRecordAndCancelRestoresRatings(t *testing.T) {
	l := newTestLedger(t, map[int]int{1: 1000, 2: 1000})

	rec, err := l.Record("d1", 1, 2, models.OutcomeAWin, t0)
	require.NoError(t, err)
	assert.Equal(t, 16, rec.Delta)
	assert.Equal(t, 1000, rec.RatingA)
	assert.Equal(t, 1000, rec.RatingB)
	assert.Equal(t, map[int]int{1: 1016, 2: 984}, l.Ratings())

	changed, err := l.Cancel("d1")
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, models.RecordCancelled, changed[0].Status)
	assert.Equal(t, map[int]int{1: 1000, 2: 1000}, l.Ratings())
}

func TestLedgerOutOfOrderCancelMatchesFreshReplay(t *testing.T) {
	initial := map[int]int{1: 1200, 2: 1000, 3: 1100}
	duels := []struct {
		a, b    int
		outcome models.Outcome
	}{
		{1, 2, models.OutcomeBWin},
		{2, 3, models.OutcomeAWin},
		{1, 3, models.OutcomeDraw},
		{3, 2, models.OutcomeAWin},
	}

	l := newTestLedger(t, initial)
	for i, d := range duels {
		_, err := l.Record(fmt.Sprintf("d%d", i), d.a, d.b, d.outcome, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	changed, err := l.Cancel("d0")
	require.NoError(t, err)
	assert.Equal(t, "d0", changed[0].ID)
	assert.Greater(t, len(changed), 1, "later records must be recomputed")

	fresh := newTestLedger(t, initial)
	for i, d := range duels[1:] {
		_, err := fresh.Record(fmt.Sprintf("f%d", i), d.a, d.b, d.outcome, t0)
		require.NoError(t, err)
	}
	assert.Equal(t, fresh.Ratings(), l.Ratings())

	total := 0
	for _, r := range l.Ratings() {
		total += r
	}
	assert.Equal(t, 3300, total)
}

func TestLedgerRejections(t *testing.T) {
	l := newTestLedger(t, map[int]int{1: 1000, 2: 1000})

	_, err := l.Record("x", 1, 1, models.OutcomeAWin, t0)
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	_, err = l.Record("x", 1, 9, models.OutcomeAWin, t0)
	assert.ErrorIs(t, err, models.ErrUnknownReference)

	_, err = l.Record("x", 1, 2, models.Outcome("forfeit"), t0)
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	_, err = l.Cancel("missing")
	assert.ErrorIs(t, err, models.ErrUnknownReference)

	_, err = l.Record("x", 1, 2, models.OutcomeAWin, t0)
	require.NoError(t, err)
	_, err = l.Record("x", 1, 2, models.OutcomeAWin, t0)
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	_, err = l.Cancel("x")
	require.NoError(t, err)
	_, err = l.Cancel("x")
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	assert.ErrorIs(t, l.Register(1, 1500), models.ErrInvalidOperand)
	_, err = l.Rating(42)
	assert.ErrorIs(t, err, models.ErrUnknownReference)
}
