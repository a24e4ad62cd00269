package genetic

import (
	"fmt"
	"math/rand"
)

// MutationMethod perturbs a chromosome in place.
type MutationMethod interface {
	Name() string
	Mutate(rng *rand.Rand, child *Chromosome)
}

// GaussianMutation nudges each gene, with probability Rate, by
// ±Factor·U(0,1). The sign is a fair coin flip drawn for every gene.
type GaussianMutation struct {
	rate   float32
	factor float32
}

// NewGaussianMutation panics if rate is outside [0, 1].
func NewGaussianMutation(rate, factor float32) GaussianMutation {
	if rate < 0 || rate > 1 {
		panic(fmt.Sprintf("genetic: mutation rate %v outside [0, 1]", rate))
	}
	return GaussianMutation{rate: rate, factor: factor}
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

// Rate returns the per-gene mutation probability.
func (m GaussianMutation) Rate() float32 { return m.rate }

// Factor returns the perturbation magnitude.
func (m GaussianMutation) Factor() float32 { return m.factor }

func (m GaussianMutation) Mutate(rng *rand.Rand, child *Chromosome) {
	for i := range child.genes {
		sign := float32(1)
		if rng.Float64() < 0.5 {
			sign = -1
		}

		if rng.Float64() < float64(m.rate) {
			child.genes[i] += sign * m.factor * rng.Float32()
		}
	}
}
