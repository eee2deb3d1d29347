package brackets

import (
	"math/rand"

	"github.com/Dosada05/competition-engine/models"
)

// roster returns n players with ids 1..n, strongest first.
func roster(n int) []models.Player {
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{
			ID:          i + 1,
			DisplayName: string(rune('A' + i%26)),
			DisplayRank: 3000 - i*100,
		}
	}
	return players
}

func newRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func ptr(v int) *int { return &v }

func playersInRound(r models.Round) []int {
	var ids []int
	for _, m := range r.Matches {
		for _, s := range m.Slots {
			if s.IsPlayer() {
				ids = append(ids, s.PlayerID)
			}
		}
	}
	return ids
}
