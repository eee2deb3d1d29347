package models

type SlotKind string

const (
	SlotEmpty  SlotKind = "empty"
	SlotPlayer SlotKind = "player"
	SlotBye    SlotKind = "bye"
)

// Slot is one side of a match: a player, a BYE, or not yet determined.
type Slot struct {
	Kind     SlotKind `json:"kind"`
	PlayerID int      `json:"player_id,omitempty"`
}

func PlayerSlot(id int) Slot { return Slot{Kind: SlotPlayer, PlayerID: id} }
func ByeSlot() Slot          { return Slot{Kind: SlotBye} }
func EmptySlot() Slot        { return Slot{Kind: SlotEmpty} }

func (s Slot) IsPlayer() bool { return s.Kind == SlotPlayer }
func (s Slot) IsBye() bool    { return s.Kind == SlotBye }
func (s Slot) IsEmpty() bool  { return s.Kind == SlotEmpty || s.Kind == "" }

type Match struct {
	ID     string  `json:"id"`
	Slots  [2]Slot `json:"slots"`
	Winner *int    `json:"winner,omitempty"`
	// Rematch is set when pairing had to repeat an earlier pairing.
	Rematch bool `json:"rematch,omitempty"`
}

// HasPlayer reports whether id occupies one of the match slots.
func (m Match) HasPlayer(id int) bool {
	return (m.Slots[0].IsPlayer() && m.Slots[0].PlayerID == id) ||
		(m.Slots[1].IsPlayer() && m.Slots[1].PlayerID == id)
}

// IsBye reports whether exactly one real player faces a BYE.
func (m Match) IsBye() bool {
	return (m.Slots[0].IsPlayer() && m.Slots[1].IsBye()) ||
		(m.Slots[1].IsPlayer() && m.Slots[0].IsBye())
}

// Decidable reports whether both slots hold real players.
func (m Match) Decidable() bool {
	return m.Slots[0].IsPlayer() && m.Slots[1].IsPlayer()
}

// Loser returns the slot that did not win. It is empty while the result is unset.
func (m Match) Loser() Slot {
	if m.Winner == nil {
		return EmptySlot()
	}
	for _, s := range m.Slots {
		if !(s.IsPlayer() && s.PlayerID == *m.Winner) {
			return s
		}
	}
	return EmptySlot()
}

// Clone returns a copy that shares no pointers with m.
func (m Match) Clone() Match {
	c := m
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return c
}
