// Package genetic implements the genetic algorithm that drives reproduction:
// a flat float chromosome, pluggable selection/crossover/mutation strategies,
// and the generational and pairwise reproduction protocols built on them.
package genetic

import (
	"fmt"
	"iter"
	"math"
)

// DefaultTolerance is the relative tolerance used by Chromosome.Equal.
const DefaultTolerance = 1e-5

// Chromosome is an ordered, fixed-length sequence of genes.
type Chromosome struct {
	genes []float32
}

// NewChromosome builds a chromosome from a copy of genes.
func NewChromosome(genes []float32) Chromosome {
	c := Chromosome{genes: make([]float32, len(genes))}
	copy(c.genes, genes)
	return c
}

// Len returns the number of genes.
func (c Chromosome) Len() int {
	return len(c.genes)
}

// At returns the gene at index i.
func (c Chromosome) At(i int) float32 {
	return c.genes[i]
}

// All iterates over (index, gene) pairs in order.
func (c Chromosome) All() iter.Seq2[int, float32] {
	return func(yield func(int, float32) bool) {
		for i, g := range c.genes {
			if !yield(i, g) {
				return
			}
		}
	}
}

// Floats returns a copy of the genes as a plain slice.
func (c Chromosome) Floats() []float32 {
	out := make([]float32, len(c.genes))
	copy(out, c.genes)
	return out
}

// SplitAt partitions the chromosome into genes [0, offset) and [offset, Len).
// Both halves are independent copies.
func (c Chromosome) SplitAt(offset int) (Chromosome, Chromosome) {
	if offset < 0 || offset > len(c.genes) {
		panic(fmt.Sprintf("genetic: split offset %d out of range [0, %d]", offset, len(c.genes)))
	}
	return NewChromosome(c.genes[:offset]), NewChromosome(c.genes[offset:])
}

// Concat returns a new chromosome holding c's genes followed by other's.
func (c Chromosome) Concat(other Chromosome) Chromosome {
	out := Chromosome{genes: make([]float32, 0, len(c.genes)+len(other.genes))}
	out.genes = append(out.genes, c.genes...)
	out.genes = append(out.genes, other.genes...)
	return out
}

// Equal reports whether both chromosomes have the same length and every gene
// pair matches within the given relative tolerance.
func (c Chromosome) Equal(other Chromosome, tolerance float64) bool {
	if len(c.genes) != len(other.genes) {
		return false
	}
	for i := range c.genes {
		a, b := float64(c.genes[i]), float64(other.genes[i])
		diff := math.Abs(a - b)
		scale := math.Max(math.Abs(a), math.Abs(b))
		if diff > tolerance && diff > tolerance*scale {
			return false
		}
	}
	return true
}
