package telemetry

import (
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/sim"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	// Event counters for current window
	births int
	deaths int
	meals  int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// RecordTick adds one tick's events to the current window.
func (c *Collector) RecordTick(t sim.TickStats) {
	c.births += t.Births
	c.deaths += t.Deaths
	c.meals += t.Meals
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Pending reports whether ticks have been recorded since the last flush.
func (c *Collector) Pending(currentTick uint64) bool {
	return currentTick > c.windowStartTick
}

// Flush produces a WindowStats from the window's events and the current
// world, then resets counters for the next window.
func (c *Collector) Flush(view sim.WorldView, fitness genetic.Statistics) WindowStats {
	n := len(view.Creatures)
	energies := make([]float64, n)
	sizes := make([]float64, n)
	speeds := make([]float64, n)
	generations := make([]float64, n)

	var maxGen uint32
	for i, cr := range view.Creatures {
		energies[i] = float64(cr.Energy)
		sizes[i] = float64(cr.Size)
		speeds[i] = float64(cr.Speed)
		generations[i] = float64(cr.Generation)
		maxGen = max(maxGen, cr.Generation)
	}

	energyMean, p10, p50, p90 := ComputeEnergyStats(energies)
	sizeMean, sizeStd := meanStd(sizes)
	speedMean, _ := meanStd(speeds)
	genMean, _ := meanStd(generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   view.Tick,

		Population: n,
		FoodCount:  len(view.Foods),
		FoodTarget: view.FoodTarget,

		Births: c.births,
		Deaths: c.deaths,
		Meals:  c.meals,

		FitnessMin: float64(fitness.MinFitness),
		FitnessMax: float64(fitness.MaxFitness),
		FitnessAvg: float64(fitness.AvgFitness),

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		GenerationMean: genMean,
		GenerationMax:  maxGen,
		SizeMean:       sizeMean,
		SizeStd:        sizeStd,
		SpeedMean:      speedMean,
	}

	c.windowStartTick = view.Tick
	c.births, c.deaths, c.meals = 0, 0, 0

	return stats
}
