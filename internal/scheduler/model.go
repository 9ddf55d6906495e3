package scheduler

// gene is one open shift's proposed assignee; nil means the search left it
// unfilled.
type gene struct {
	shiftIndex int
	staffID    *int64
	hours      float64
}

// chromosome is one full candidate plan over all open shifts.
type chromosome struct {
	genes   []*gene
	fitness float64
}

// Parameters tune the genetic search.
type Parameters struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int
	// FairnessWeight trades coverage against an even spread of hours across
	// staff: higher values prefer balanced plans over fuller ones.
	FairnessWeight float64
}

func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize: 80,
		MaxGenerations: 150,
		CrossoverRate:  0.8,
		MutationRate:   0.05,
		EliteCount:     4,
		FairnessWeight: 0.5,
	}
}
