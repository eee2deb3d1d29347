package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/realtime"
	"github.com/Dosada05/competition-engine/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cloneRun deep-copies through JSON, the same path the Postgres repository takes.
func cloneRun(t *models.Tournament) *models.Tournament {
	raw, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	var out models.Tournament
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type fakeRunRepo struct {
	mu     sync.Mutex
	runs   map[int]*models.Tournament
	nextID int
	writes int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[int]*models.Tournament{}, nextID: 1}
}

func (r *fakeRunRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.runs {
		if existing.Name == t.Name {
			return repositories.ErrRunNameConflict
		}
	}
	t.ID = r.nextID
	t.Version = 1
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.nextID++
	r.runs[t.ID] = cloneRun(t)
	r.writes++
	return nil
}

func (r *fakeRunRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.runs[id]
	if !ok {
		return nil, repositories.ErrRunNotFound
	}
	return cloneRun(t), nil
}

func (r *fakeRunRepo) List(_ context.Context, _ repositories.ListRunsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0, len(r.runs))
	for id := 1; id < r.nextID; id++ {
		if t, ok := r.runs[id]; ok {
			out = append(out, *cloneRun(t))
		}
	}
	return out, nil
}

func (r *fakeRunRepo) Update(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.runs[t.ID]
	if !ok {
		return repositories.ErrRunNotFound
	}
	if stored.Version != t.Version {
		return repositories.ErrRunVersionConflict
	}
	t.Version++
	t.UpdatedAt = time.Now()
	r.runs[t.ID] = cloneRun(t)
	r.writes++
	return nil
}

type fakePlayerRepo struct {
	players map[int]models.Player
}

func newFakePlayerRepo(n int) *fakePlayerRepo {
	r := &fakePlayerRepo{players: map[int]models.Player{}}
	for i := 1; i <= n; i++ {
		r.players[i] = models.Player{ID: i, DisplayName: string(rune('a' + i - 1)), DisplayRank: 2000 - i*100}
	}
	return r
}

func (r *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	p.ID = len(r.players) + 1
	r.players[p.ID] = *p
	return nil
}

func (r *fakePlayerRepo) GetByIDs(_ context.Context, ids []int) ([]models.Player, error) {
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.players[id]
		if !ok {
			return nil, repositories.ErrPlayerNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlayerRepo) List(_ context.Context) ([]models.Player, error) {
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out, nil
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	players []models.RatedPlayer
	records []models.RatingRecord
}

func (r *fakeRatingRepo) CreatePlayer(_ context.Context, p models.RatedPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.players {
		if existing.PlayerID == p.PlayerID {
			return repositories.ErrRatedPlayerConflict
		}
	}
	r.players = append(r.players, p)
	return nil
}

func (r *fakeRatingRepo) ListPlayers(_ context.Context) ([]models.RatedPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RatedPlayer(nil), r.players...), nil
}

func (r *fakeRatingRepo) ListRecords(_ context.Context) ([]models.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RatingRecord(nil), r.records...), nil
}

func (r *fakeRatingRepo) SaveRecords(_ context.Context, records []models.RatingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
next:
	for _, rec := range records {
		for i := range r.records {
			if r.records[i].ID == rec.ID {
				r.records[i] = rec
				continue next
			}
		}
		r.records = append(r.records, rec)
	}
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []realtime.Message
	rooms    []string
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message realtime.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, roomID)
	b.messages = append(b.messages, message)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type fakeExporter struct {
	exported  map[int][]models.Standing
	withdrawn []int
}

func (e *fakeExporter) Export(_ context.Context, run *models.Tournament, standings []models.Standing) (string, error) {
	e.exported[run.ID] = standings
	return "https://cdn.example.com/standings/run.json", nil
}

func (e *fakeExporter) Withdraw(_ context.Context, runID int) error {
	delete(e.exported, runID)
	e.withdrawn = append(e.withdrawn, runID)
	return nil
}

func repositoriesFilter() repositories.ListRunsFilter {
	return repositories.ListRunsFilter{}
}
