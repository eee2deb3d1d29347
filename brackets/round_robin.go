package brackets

import (
	"fmt"

	"github.com/Dosada05/competition-engine/models"
)

// RoundRobinMatches creates one match for every unordered pair of ids. The
// matches form a flat list; groups play them in any order.
func RoundRobinMatches(groupIdx int, ids []int) []models.Match {
	matches := make([]models.Match, 0, len(ids)*(len(ids)-1)/2)
	matchOrder := 0
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			matchOrder++
			matches = append(matches, models.Match{
				ID:    fmt.Sprintf("G%dM%d", groupIdx+1, matchOrder),
				Slots: [2]models.Slot{models.PlayerSlot(ids[i]), models.PlayerSlot(ids[j])},
			})
		}
	}
	return matches
}

// SerpentineGroups deals ids into groupCount groups, reversing direction on
// every pass so each group gets a similar spread of seeds.
func SerpentineGroups(ids []int, groupCount int) [][]int {
	groups := make([][]int, groupCount)
	for i, id := range ids {
		idx := i % groupCount
		if (i/groupCount)%2 == 1 {
			idx = groupCount - 1 - idx
		}
		groups[idx] = append(groups[idx], id)
	}
	return groups
}
