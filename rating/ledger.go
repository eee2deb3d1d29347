package rating

import (
	"fmt"
	"time"

	"github.com/Dosada05/competition-engine/models"
)

// Ledger derives current ratings by replaying active duel records over the
// initial ratings. Records are kept in chronological order and never removed;
// cancelling flips the status and replays.
type Ledger struct {
	KFactor int
	initial map[int]int
	records []models.RatingRecord
}

func NewLedger(kFactor int, players []models.RatedPlayer, records []models.RatingRecord) *Ledger {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	l := &Ledger{
		KFactor: kFactor,
		initial: make(map[int]int, len(players)),
		records: append([]models.RatingRecord(nil), records...),
	}
	for _, p := range players {
		l.initial[p.PlayerID] = p.InitialRating
	}
	return l
}

// Register adds a player with a starting rating. Re-registering an existing
// player is rejected because it would rewrite history.
func (l *Ledger) Register(playerID, initialRating int) error {
	if playerID <= 0 {
		return fmt.Errorf("%w: player id %d", models.ErrInvalidOperand, playerID)
	}
	if _, ok := l.initial[playerID]; ok {
		return fmt.Errorf("%w: player %d already registered", models.ErrInvalidOperand, playerID)
	}
	l.initial[playerID] = initialRating
	return nil
}

// Records returns a copy of the full log, cancelled records included.
func (l *Ledger) Records() []models.RatingRecord {
	return append([]models.RatingRecord(nil), l.records...)
}

// Ratings replays the active records and returns the current rating of every
// registered player.
func (l *Ledger) Ratings() map[int]int {
	ratings, _ := l.replay(l.records)
	return ratings
}

func (l *Ledger) Rating(playerID int) (int, error) {
	if _, ok := l.initial[playerID]; !ok {
		return 0, fmt.Errorf("%w: player %d", models.ErrUnknownReference, playerID)
	}
	return l.Ratings()[playerID], nil
}

// Record appends an active duel record computed from the current ratings.
func (l *Ledger) Record(id string, playerA, playerB int, outcome models.Outcome, at time.Time) (models.RatingRecord, error) {
	if !outcome.Valid() {
		return models.RatingRecord{}, fmt.Errorf("%w: outcome %q", models.ErrInvalidOperand, outcome)
	}
	if playerA == playerB {
		return models.RatingRecord{}, fmt.Errorf("%w: player %d cannot duel themself", models.ErrInvalidOperand, playerA)
	}
	for _, pid := range []int{playerA, playerB} {
		if _, ok := l.initial[pid]; !ok {
			return models.RatingRecord{}, fmt.Errorf("%w: player %d", models.ErrUnknownReference, pid)
		}
	}
	for _, r := range l.records {
		if r.ID == id {
			return models.RatingRecord{}, fmt.Errorf("%w: duplicate record id %s", models.ErrInvalidOperand, id)
		}
	}

	ratings := l.Ratings()
	rec := models.RatingRecord{
		ID:        id,
		PlayerA:   playerA,
		PlayerB:   playerB,
		Outcome:   outcome,
		RatingA:   ratings[playerA],
		RatingB:   ratings[playerB],
		KFactor:   l.KFactor,
		Status:    models.RecordActive,
		CreatedAt: at,
	}
	rec.Delta = ComputeDelta(rec.RatingA, rec.RatingB, outcome, rec.KFactor)
	l.records = append(l.records, rec)
	return rec, nil
}

// Cancel deactivates a record and replays the log so every later record's
// pre-match ratings and delta reflect the corrected history. It returns the
// records whose stored values changed, the cancelled one first.
func (l *Ledger) Cancel(id string) ([]models.RatingRecord, error) {
	idx := -1
	for i, r := range l.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: duel record %s", models.ErrUnknownReference, id)
	}
	if l.records[idx].Status == models.RecordCancelled {
		return nil, fmt.Errorf("%w: duel record %s already cancelled", models.ErrInvalidOperand, id)
	}

	next := append([]models.RatingRecord(nil), l.records...)
	next[idx].Status = models.RecordCancelled
	_, replayed := l.replay(next)

	changed := []models.RatingRecord{replayed[idx]}
	for i := idx + 1; i < len(replayed); i++ {
		if replayed[i] != l.records[i] {
			changed = append(changed, replayed[i])
		}
	}
	l.records = replayed
	return changed, nil
}

// replay walks records in order from the initial ratings, refreshing the
// pre-match ratings and delta of every active record.
func (l *Ledger) replay(records []models.RatingRecord) (map[int]int, []models.RatingRecord) {
	ratings := make(map[int]int, len(l.initial))
	for id, r := range l.initial {
		ratings[id] = r
	}
	out := make([]models.RatingRecord, len(records))
	for i, rec := range records {
		out[i] = rec
		if rec.Status != models.RecordActive {
			continue
		}
		k := rec.KFactor
		if k <= 0 {
			k = l.KFactor
		}
		out[i].RatingA = ratings[rec.PlayerA]
		out[i].RatingB = ratings[rec.PlayerB]
		out[i].Delta = ComputeDelta(out[i].RatingA, out[i].RatingB, rec.Outcome, k)
		ratings[rec.PlayerA] = Apply(ratings[rec.PlayerA], out[i].Delta)
		ratings[rec.PlayerB] = Apply(ratings[rec.PlayerB], -out[i].Delta)
	}
	return ratings, out
}
