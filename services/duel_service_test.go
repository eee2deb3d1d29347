package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/realtime"
)

func newDuelFixture(t *testing.T, players ...int) (*duelService, *fakeRatingRepo, *fakeBroadcaster) {
	t.Helper()
	repo := &fakeRatingRepo{}
	hub := &fakeBroadcaster{}
	svc := NewDuelService(repo, hub, discardLogger(), 32, 1000).(*duelService)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("duel-%d", n)
	}
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, n, 0, time.UTC) }

	for _, id := range players {
		_, err := svc.RegisterPlayer(context.Background(), id, nil)
		require.NoError(t, err)
	}
	return svc, repo, hub
}

func TestRecordAndCancelDuel(t *testing.T) {
	svc, repo, hub := newDuelFixture(t, 1, 2)
	ctx := context.Background()

	rec, err := svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 1, PlayerB: 2, Outcome: models.OutcomeAWin})
	require.NoError(t, err)
	assert.Equal(t, "duel-1", rec.ID)
	assert.Equal(t, 16, rec.Delta)
	assert.Equal(t, 1000, rec.RatingA)

	ratings, err := svc.Ratings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PlayerRating{{PlayerID: 1, Rating: 1016}, {PlayerID: 2, Rating: 984}}, ratings)

	changed, err := svc.CancelDuel(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, models.RecordCancelled, changed[0].Status)
	assert.Equal(t, models.RecordCancelled, repo.records[0].Status)

	ratings, err = svc.Ratings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PlayerRating{{PlayerID: 1, Rating: 1000}, {PlayerID: 2, Rating: 1000}}, ratings)

	assert.Equal(t, []string{realtime.MessageRatingChanged, realtime.MessageRatingChanged}, hub.types())
	assert.Equal(t, realtime.RatingsRoom, hub.rooms[0])
}

func TestCancelDuelReplaysLaterRecords(t *testing.T) {
	svc, repo, _ := newDuelFixture(t, 1, 2, 3)
	ctx := context.Background()

	first, err := svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 1, PlayerB: 2, Outcome: models.OutcomeAWin})
	require.NoError(t, err)
	second, err := svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 2, PlayerB: 3, Outcome: models.OutcomeDraw})
	require.NoError(t, err)
	assert.Equal(t, 984, second.RatingA)

	changed, err := svc.CancelDuel(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, second.ID, changed[1].ID)
	assert.Equal(t, 1000, changed[1].RatingA)
	assert.Equal(t, 0, changed[1].Delta)
	assert.Equal(t, 1000, repo.records[1].RatingA)

	records, err := svc.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDuelRejections(t *testing.T) {
	svc, repo, _ := newDuelFixture(t, 1, 2)
	ctx := context.Background()

	_, err := svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 1, PlayerB: 9, Outcome: models.OutcomeAWin})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 1, PlayerB: 1, Outcome: models.OutcomeAWin})
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	_, err = svc.RecordDuel(ctx, RecordDuelInput{PlayerA: 1, PlayerB: 2, Outcome: "forfeit"})
	assert.ErrorIs(t, err, models.ErrInvalidOperand)

	_, err = svc.CancelDuel(ctx, "missing")
	assert.ErrorIs(t, err, ErrDuelNotFound)

	_, err = svc.RegisterPlayer(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrRatedPlayerConflict)

	_, err = svc.RegisterPlayer(ctx, 0, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	assert.Empty(t, repo.records)
}

func TestRegisterPlayerWithInitialRating(t *testing.T) {
	svc, _, _ := newDuelFixture(t)
	start := 1400

	p, err := svc.RegisterPlayer(context.Background(), 5, &start)
	require.NoError(t, err)
	assert.Equal(t, 1400, p.InitialRating)

	ratings, err := svc.Ratings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PlayerRating{{PlayerID: 5, Rating: 1400}}, ratings)
}
