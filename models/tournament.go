package models

import "time"

// Status is the state of a format run.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Tournament is the persisted envelope around one format run. Exactly one of
// Bracket, Swiss or Hybrid is set, matching Format.
type Tournament struct {
	ID      int        `json:"id" db:"id"`
	Name    string     `json:"name" db:"name"`
	Format  FormatKind `json:"format" db:"format"`
	Status  Status     `json:"status" db:"status"`
	Seed    int64      `json:"seed" db:"seed"`
	Version int        `json:"version" db:"version"`

	Bracket *Bracket   `json:"bracket,omitempty" db:"-"`
	Swiss   *SwissRun  `json:"swiss,omitempty" db:"-"`
	Hybrid  *HybridRun `json:"hybrid,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
