package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Dosada05/competition-engine/db"
	"github.com/Dosada05/competition-engine/models"
)

// openTestDB starts a throwaway Postgres and applies the schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("engine"),
		postgres.WithUsername("engine"),
		postgres.WithPassword("engine"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Connect(dsn, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}

func TestPostgresRepositories(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	players := NewPostgresPlayerRepository(conn)
	runs := NewPostgresRunRepository(conn)
	ratings := NewPostgresRatingRepository(conn)

	var ids []int
	for i, name := range []string{"ana", "ben", "cyd"} {
		p := models.Player{DisplayName: name, DisplayRank: 1500 - i*100}
		require.NoError(t, players.Create(ctx, &p))
		ids = append(ids, p.ID)
	}

	t.Run("roster keeps requested order", func(t *testing.T) {
		got, err := players.GetByIDs(ctx, []int{ids[2], ids[0]})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "cyd", got[0].DisplayName)
		assert.Equal(t, "ana", got[1].DisplayName)

		_, err = players.GetByIDs(ctx, []int{ids[0], 9999})
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("run versioning", func(t *testing.T) {
		run := &models.Tournament{
			Name:   "spring open",
			Format: models.FormatBracket,
			Status: models.StatusInProgress,
			Seed:   42,
			Bracket: &models.Bracket{Size: 2, Rounds: []models.Round{{
				Kind:  models.RoundFinal,
				Title: "final",
				Matches: []models.Match{{
					ID:    "R1M1",
					Slots: [2]models.Slot{models.PlayerSlot(ids[0]), models.PlayerSlot(ids[1])},
				}},
			}}},
		}
		require.NoError(t, runs.Create(ctx, run))
		assert.Equal(t, 1, run.Version)

		dup := *run
		assert.ErrorIs(t, runs.Create(ctx, &dup), ErrRunNameConflict)

		stale, err := runs.GetByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.Bracket, stale.Bracket)

		winner := ids[0]
		run.Bracket.Rounds[0].Matches[0].Winner = &winner
		run.Status = models.StatusFinished
		require.NoError(t, runs.Update(ctx, run))
		assert.Equal(t, 2, run.Version)
		stored, err := runs.GetByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		assert.Equal(t, models.StatusFinished, stored.Status)
		assert.WithinDuration(t, run.UpdatedAt, stored.UpdatedAt, time.Second)

		assert.ErrorIs(t, runs.Update(ctx, stale), ErrRunVersionConflict)

		missing := &models.Tournament{ID: 9999, Version: 1}
		assert.ErrorIs(t, runs.Update(ctx, missing), ErrRunNotFound)

		_, err = runs.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrRunNotFound)

		finished := models.StatusFinished
		listed, err := runs.List(ctx, ListRunsFilter{Status: &finished})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Nil(t, listed[0].Bracket)
	})

	t.Run("rating records round trip", func(t *testing.T) {
		require.NoError(t, ratings.CreatePlayer(ctx, models.RatedPlayer{PlayerID: ids[0], InitialRating: 1000}))
		require.NoError(t, ratings.CreatePlayer(ctx, models.RatedPlayer{PlayerID: ids[1], InitialRating: 1000}))
		assert.ErrorIs(t, ratings.CreatePlayer(ctx, models.RatedPlayer{PlayerID: ids[0], InitialRating: 1000}), ErrRatedPlayerConflict)
		assert.ErrorIs(t, ratings.CreatePlayer(ctx, models.RatedPlayer{PlayerID: 9999, InitialRating: 1000}), ErrRatedPlayerInvalid)

		rec := models.RatingRecord{
			ID: uuid.NewString(), PlayerA: ids[0], PlayerB: ids[1], Outcome: models.OutcomeAWin,
			RatingA: 1000, RatingB: 1000, Delta: 16, KFactor: 32, Status: models.RecordActive,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, ratings.SaveRecords(ctx, []models.RatingRecord{rec}))

		rec.Status = models.RecordCancelled
		require.NoError(t, ratings.SaveRecords(ctx, []models.RatingRecord{rec}))

		got, err := ratings.ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.RecordCancelled, got[0].Status)
		assert.Equal(t, 16, got[0].Delta)

		pool, err := ratings.ListPlayers(ctx)
		require.NoError(t, err)
		assert.Len(t, pool, 2)
	})
}
