package genetic

import (
	"fmt"
	"math"
	"math/rand"
)

// Individual pairs a fitness score with a chromosome.
type Individual interface {
	Fitness() float32
	Chromosome() Chromosome
}

// SelectionMethod picks one parent from a population.
type SelectionMethod interface {
	Name() string
	Select(rng *rand.Rand, population []Individual) Individual
}

// RouletteWheelSelection draws an individual with probability proportional
// to its share of the population's total fitness.
type RouletteWheelSelection struct{}

func (RouletteWheelSelection) Name() string {
	return "roulette_wheel"
}

// Select panics if the population is empty, if any fitness is negative or
// NaN, or if the total fitness is zero.
func (RouletteWheelSelection) Select(rng *rand.Rand, population []Individual) Individual {
	if len(population) == 0 {
		panic("genetic: roulette selection on empty population")
	}

	var total float64
	for i, ind := range population {
		f := float64(ind.Fitness())
		if f < 0 || math.IsNaN(f) {
			panic(fmt.Sprintf("genetic: invalid fitness %v at index %d", f, i))
		}
		total += f
	}
	if total <= 0 {
		panic("genetic: roulette selection needs at least one positive fitness")
	}

	target := rng.Float64() * total
	var cumulative float64
	last := 0
	for i, ind := range population {
		f := float64(ind.Fitness())
		if f == 0 {
			continue
		}
		cumulative += f
		last = i
		if target < cumulative {
			return ind
		}
	}
	// Rounding can leave target just past the final boundary.
	return population[last]
}
