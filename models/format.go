package models

type FormatKind string

const (
	FormatBracket FormatKind = "bracket"
	FormatSwiss   FormatKind = "swiss"
	FormatHybrid  FormatKind = "hybrid"
)

func (f FormatKind) Valid() bool {
	switch f {
	case FormatBracket, FormatSwiss, FormatHybrid:
		return true
	}
	return false
}

// Seeding selects how the initial player order is produced.
type Seeding string

const (
	SeedingRanked Seeding = "ranked"
	SeedingRandom Seeding = "random"
)

func (s Seeding) Valid() bool {
	return s == SeedingRanked || s == SeedingRandom
}
