package genetic

import (
	"fmt"
	"math/rand"
)

// CrossoverMethod combines two parent chromosomes into one child.
type CrossoverMethod interface {
	Name() string
	Crossover(rng *rand.Rand, a, b Chromosome) Chromosome
}

// UniformCrossover copies each gene from either parent with equal probability.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

// Crossover panics if the parents differ in length.
func (UniformCrossover) Crossover(rng *rand.Rand, a, b Chromosome) Chromosome {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("genetic: crossover of unequal parents (%d vs %d genes)", a.Len(), b.Len()))
	}

	child := Chromosome{genes: make([]float32, a.Len())}
	for i := range child.genes {
		if rng.Float64() < 0.5 {
			child.genes[i] = a.genes[i]
		} else {
			child.genes[i] = b.genes[i]
		}
	}
	return child
}
