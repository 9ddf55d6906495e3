// Package scheduler suggests assignees for open shifts with a genetic search.
// Suggestions are advisory: the manager reviews them and assigns through the
// normal endpoint, so availability stays a signal and never a constraint the
// system enforces on its own.
package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// Suggestion pairs an open shift with the proposed assignee. StaffID is nil
// when no candidate had availability covering the shift.
type Suggestion struct {
	ShiftID int64  `json:"shiftID"`
	StaffID *int64 `json:"staffID"`
}

type Suggester struct {
	parameters *Parameters
	shifts     []*domain.Shift
	// candidates[i] holds the staff IDs whose stated availability covers
	// shift i's start.
	candidates [][]int64
	rng        rng
}

// rng is the subset of math/rand the search uses, injectable for
// deterministic tests.
type rng interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// New prepares a suggester for the given open shifts. Staff with no
// availability covering a shift are never candidates for it; a shift that is
// not open is rejected outright.
func New(parameters *Parameters, r rng, staff []*domain.Staff, shifts []*domain.Shift, availability map[int64][]*domain.Availability) (*Suggester, error) {
	s := &Suggester{
		parameters: parameters,
		shifts:     shifts,
		candidates: make([][]int64, len(shifts)),
		rng:        r,
	}

	for i, shift := range shifts {
		if shift.Status != domain.ShiftStatusOpen {
			return nil, fmt.Errorf("shift %d is not open", shift.ID)
		}

		for _, member := range staff {
			if !member.IsActive {
				continue
			}
			for _, slot := range availability[member.ID] {
				if slot.Covers(shift.StartTime) {
					s.candidates[i] = append(s.candidates[i], member.ID)
					break
				}
			}
		}
	}

	return s, nil
}

// Suggest runs the search and returns one suggestion per shift, keeping the
// best plan seen across all generations.
func (s *Suggester) Suggest() []Suggestion {
	pop := make([]*chromosome, s.parameters.PopulationSize)
	for i := range pop {
		pop[i] = s.randomInit()
		s.calcFitness(pop[i])
	}

	best := &chromosome{fitness: -math.MaxFloat64}

	for gen := 0; gen < s.parameters.MaxGenerations; gen++ {
		for _, ch := range pop {
			if ch.fitness > best.fitness {
				best = ch.clone()
			}
		}

		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})

		next := make([]*chromosome, 0, s.parameters.PopulationSize)
		for _, elite := range pop[:s.parameters.EliteCount] {
			next = append(next, elite.clone())
		}

		for len(next) < s.parameters.PopulationSize {
			p1 := s.selectByRoulette(pop).clone()
			p2 := s.selectByRoulette(pop).clone()

			if s.rng.Float64() < s.parameters.CrossoverRate {
				s.singlePointCrossover(p1, p2)
			}

			s.mutate(p1)
			s.mutate(p2)

			next = append(next, p1)
			if len(next) < s.parameters.PopulationSize {
				next = append(next, p2)
			}
		}

		pop = next
		for _, ch := range pop {
			s.calcFitness(ch)
		}
	}

	suggestions := make([]Suggestion, len(best.genes))
	for i, g := range best.genes {
		suggestions[i] = Suggestion{ShiftID: s.shifts[g.shiftIndex].ID, StaffID: g.staffID}
	}
	return suggestions
}

func (ch *chromosome) clone() *chromosome {
	genes := make([]*gene, len(ch.genes))
	for i, g := range ch.genes {
		c := *g
		genes[i] = &c
	}
	return &chromosome{genes: genes, fitness: ch.fitness}
}
