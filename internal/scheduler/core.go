package scheduler

import "math"

func (s *Suggester) randomInit() *chromosome {
	genes := make([]*gene, len(s.shifts))

	for i, shift := range s.shifts {
		g := &gene{
			shiftIndex: i,
			hours:      shift.EndTime.Sub(shift.StartTime).Hours(),
		}
		if pool := s.candidates[i]; len(pool) > 0 {
			id := pool[s.rng.Intn(len(pool))]
			g.staffID = &id
		}
		genes[i] = g
	}

	return &chromosome{genes: genes}
}

// calcFitness scores a plan:
//
//	fitness = -unfilled - FairnessWeight * variance(hours per assignee)
//
// Every unfilled shift costs one point; the variance term pushes the plan
// toward an even spread of hours.
func (s *Suggester) calcFitness(ch *chromosome) {
	hoursByStaff := make(map[int64]float64)
	unfilled := 0.0

	for _, g := range ch.genes {
		if g.staffID == nil {
			unfilled++
			continue
		}
		hoursByStaff[*g.staffID] += g.hours
	}

	variance := 0.0
	if len(hoursByStaff) > 0 {
		mean := 0.0
		for _, hours := range hoursByStaff {
			mean += hours
		}
		mean /= float64(len(hoursByStaff))

		for _, hours := range hoursByStaff {
			variance += math.Pow(hours-mean, 2)
		}
		variance /= float64(len(hoursByStaff))
	}

	ch.fitness = -unfilled - s.parameters.FairnessWeight*variance
}

// selectByRoulette picks a parent with probability proportional to fitness.
// Fitness values are all non-positive, so they are shifted above zero first.
func (s *Suggester) selectByRoulette(pop []*chromosome) *chromosome {
	worst := pop[0].fitness
	for _, ch := range pop {
		if ch.fitness < worst {
			worst = ch.fitness
		}
	}

	total := 0.0
	for _, ch := range pop {
		total += ch.fitness - worst + 1
	}

	pick := s.rng.Float64() * total
	partial := 0.0
	for _, ch := range pop {
		partial += ch.fitness - worst + 1
		if partial >= pick {
			return ch
		}
	}

	return pop[len(pop)-1]
}

func (s *Suggester) singlePointCrossover(ch1, ch2 *chromosome) {
	length := len(ch1.genes)
	if length != len(ch2.genes) || length == 0 {
		return
	}

	point := s.rng.Intn(length)
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// mutate reassigns each gene with probability MutationRate to a different
// candidate for its shift, when one exists.
func (s *Suggester) mutate(ch *chromosome) {
	for _, g := range ch.genes {
		if s.rng.Float64() > s.parameters.MutationRate {
			continue
		}

		pool := s.candidates[g.shiftIndex]
		alternatives := make([]int64, 0, len(pool))
		for _, id := range pool {
			if g.staffID != nil && *g.staffID == id {
				continue
			}
			alternatives = append(alternatives, id)
		}

		if len(alternatives) > 0 {
			id := alternatives[s.rng.Intn(len(alternatives))]
			g.staffID = &id
		}
	}
}
