package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/neural"
)

// Body genes follow the brain weights in a creature chromosome. They are
// scaled so a mutation step moves them about as far as a brain weight.
const (
	BodyGeneCount  = 2
	SizeGeneScale  = 100
	ColorGeneScale = 1
)

// BrainTopology derives the brain shape from the eye: one input per cell,
// a ReLU hidden layer twice as wide, and two Tanh outputs (Δspeed, Δrotation).
func BrainTopology(eye components.Eye) neural.Topology {
	return neural.Topology{
		{Neurons: eye.Cells, Activation: neural.ReLU},
		{Neurons: 2 * eye.Cells, Activation: neural.ReLU},
		{Neurons: 2, Activation: neural.Tanh},
	}
}

// BrainWeightCount is the offset of the body genes within a chromosome.
func BrainWeightCount(eye components.Eye) int {
	return neural.WeightCount(BrainTopology(eye))
}

// ChromosomeLen is the full creature chromosome length for an eye.
func ChromosomeLen(eye components.Eye) int {
	return BrainWeightCount(eye) + BodyGeneCount
}

// Genome is the heritable part of a creature.
type Genome struct {
	Brain *neural.Network
	Size  float32
	Color float32
}

// RandomGenome creates a founder genome: random brain weights, size uniform
// in [creature_size/2, creature_size·1.5], color uniform in [0, 1).
func RandomGenome(rng *rand.Rand, eye components.Eye, cfg *config.Config) Genome {
	brain := neural.Random(rng, BrainTopology(eye))
	lo, hi := sizeBounds(cfg)
	return Genome{
		Brain: brain,
		Size:  lo + rng.Float32()*(hi-lo),
		Color: rng.Float32(),
	}
}

// Chromosome encodes the genome as brain weights followed by the scaled
// body genes.
func (g Genome) Chromosome() genetic.Chromosome {
	genes := g.Brain.Weights()
	genes = append(genes, g.Size*SizeGeneScale, g.Color*ColorGeneScale)
	return genetic.NewChromosome(genes)
}

// GenomeFromChromosome decodes a chromosome produced for the same eye.
// The split offset is recomputed from the topology on every call. A length
// mismatch means the chromosome belongs to a different topology and panics.
func GenomeFromChromosome(c genetic.Chromosome, eye components.Eye, cfg *config.Config) Genome {
	if c.Len() != ChromosomeLen(eye) {
		panic(fmt.Sprintf("systems: chromosome has %d genes, topology needs %d", c.Len(), ChromosomeLen(eye)))
	}

	brainGenes, bodyGenes := c.SplitAt(BrainWeightCount(eye))
	brain, err := neural.FromWeights(BrainTopology(eye), brainGenes.Floats())
	if err != nil {
		panic(fmt.Sprintf("systems: decode brain: %v", err))
	}

	lo, hi := sizeBounds(cfg)
	return Genome{
		Brain: brain,
		Size:  clampFloat(bodyGenes.At(0)/SizeGeneScale, lo, hi),
		Color: clamp01(bodyGenes.At(1) / ColorGeneScale),
	}
}

func sizeBounds(cfg *config.Config) (lo, hi float32) {
	return cfg.CreatureSize / 2, cfg.CreatureSize * 1.5
}

// CreatureIndividual adapts a creature to the genetic algorithm.
type CreatureIndividual struct {
	fitness    float32
	chromosome genetic.Chromosome
}

// NewCreatureIndividual snapshots a creature's fitness and genome.
func NewCreatureIndividual(fitness float32, g Genome) CreatureIndividual {
	return CreatureIndividual{fitness: fitness, chromosome: g.Chromosome()}
}

func (c CreatureIndividual) Fitness() float32               { return c.fitness }
func (c CreatureIndividual) Chromosome() genetic.Chromosome { return c.chromosome }
