package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/runner"
)

// GenerationWeight is the survival-tick equivalent of one generation of
// descent reached during a run.
const GenerationWeight = 50

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu   sync.Mutex
	last Summary // from the most recent Evaluate call
}

// Summary averages the runs of one evaluation across seeds.
type Summary struct {
	Fitness       float64
	Ticks         float64
	MaxGeneration float64
	Extinctions   int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 500,
	}
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// RunFitness scores one run (lower = better): longer survival and deeper
// lineages both help.
func RunFitness(res runner.Result) float64 {
	return -(float64(res.Ticks) + GenerationWeight*float64(res.MaxGeneration))
}

// Evaluate computes fitness for a raw parameter vector (lower = better),
// averaged over every seed. Seeds run in parallel.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runner.Result, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(cfg.Clone(), seed)
		}()
	}
	wg.Wait()

	var sum Summary
	for _, r := range results {
		sum.Fitness += RunFitness(r)
		sum.Ticks += float64(r.Ticks)
		sum.MaxGeneration += float64(r.MaxGeneration)
		if r.Extinct {
			sum.Extinctions++
		}
	}
	n := float64(len(results))
	sum.Fitness /= n
	sum.Ticks /= n
	sum.MaxGeneration /= n

	fe.mu.Lock()
	fe.last = sum
	fe.mu.Unlock()

	return sum.Fitness
}

// runSimulation executes a single headless run until extinction or maxTicks.
// A config the simulation rejects scores as an immediate extinction.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runner.Result {
	r, err := runner.New(cfg, runner.Options{
		Seed:        seed,
		MaxTicks:    fe.maxTicks,
		StatsWindow: fe.statsWindow,
	})
	if err != nil {
		slog.Warn("rejected parameters", "error", err)
		return runner.Result{Extinct: true}
	}
	defer r.Close()

	res, err := r.Run(context.Background())
	if err != nil {
		slog.Warn("run failed", "seed", seed, "error", err)
	}
	return res
}
