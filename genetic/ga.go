package genetic

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GeneticAlgorithm bundles the three strategies used to produce offspring.
type GeneticAlgorithm struct {
	selection SelectionMethod
	crossover CrossoverMethod
	mutation  MutationMethod
}

// New creates a genetic algorithm from its strategies.
func New(selection SelectionMethod, crossover CrossoverMethod, mutation MutationMethod) *GeneticAlgorithm {
	return &GeneticAlgorithm{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
	}
}

// NewDefault creates the roulette / uniform / gaussian configuration.
func NewDefault(mutationRate, mutationStrength float32) *GeneticAlgorithm {
	return New(
		RouletteWheelSelection{},
		UniformCrossover{},
		NewGaussianMutation(mutationRate, mutationStrength),
	)
}

// Step replaces the whole population. Every output slot draws two parents
// independently (with replacement), crosses them over, mutates the child and
// wraps it with create. Statistics describe the input population.
func (ga *GeneticAlgorithm) Step(rng *rand.Rand, population []Individual, create func(Chromosome) Individual) ([]Individual, Statistics) {
	if len(population) == 0 {
		panic("genetic: step on empty population")
	}

	next := make([]Individual, len(population))
	for i := range next {
		a := ga.selection.Select(rng, population)
		b := ga.selection.Select(rng, population)
		next[i] = create(ga.Breed(rng, a.Chromosome(), b.Chromosome()))
	}
	return next, NewStatistics(population)
}

// Breed crosses two chromosomes and mutates the result. This is the
// pairwise protocol used by continuous reproduction.
func (ga *GeneticAlgorithm) Breed(rng *rand.Rand, a, b Chromosome) Chromosome {
	child := ga.crossover.Crossover(rng, a, b)
	ga.mutation.Mutate(rng, &child)
	return child
}

// Statistics summarizes the fitness of a population.
type Statistics struct {
	MinFitness float32
	MaxFitness float32
	AvgFitness float32
	Size       int
}

// NewStatistics computes fitness statistics. An empty population yields zeros.
func NewStatistics(population []Individual) Statistics {
	if len(population) == 0 {
		return Statistics{}
	}

	fitness := make([]float64, len(population))
	for i, ind := range population {
		fitness[i] = float64(ind.Fitness())
	}

	return Statistics{
		MinFitness: float32(floats.Min(fitness)),
		MaxFitness: float32(floats.Max(fitness)),
		AvgFitness: float32(stat.Mean(fitness, nil)),
		Size:       len(population),
	}
}

// LogValue implements slog.LogValuer.
func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size", s.Size),
		slog.Float64("min", float64(s.MinFitness)),
		slog.Float64("max", float64(s.MaxFitness)),
		slog.Float64("avg", float64(s.AvgFitness)),
	)
}
