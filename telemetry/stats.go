// Package telemetry aggregates per-window population statistics and
// per-phase timings, and writes them as CSV and charts.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Counts at window end
	Population int `csv:"population"`
	FoodCount  int `csv:"food"`
	FoodTarget int `csv:"food_target"`

	// Events during window
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`
	Meals  int `csv:"meals"`

	// Fitness of the living population at window end
	FitnessMin float64 `csv:"fitness_min"`
	FitnessMax float64 `csv:"fitness_max"`
	FitnessAvg float64 `csv:"fitness_avg"`

	// Energy distribution at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage and body traits
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  uint32  `csv:"generation_max"`
	SizeMean       float64 `csv:"size_mean"`
	SizeStd        float64 `csv:"size_std"`
	SpeedMean      float64 `csv:"speed_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return stat.Mean(values, nil),
		Percentile(sorted, 0.10),
		Percentile(sorted, 0.50),
		Percentile(sorted, 0.90)
}

// meanStd returns 0, 0 for an empty slice and a zero spread for one value.
func meanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("food", s.FoodCount),
		slog.Int("food_target", s.FoodTarget),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("meals", s.Meals),
		slog.Float64("fitness_min", s.FitnessMin),
		slog.Float64("fitness_max", s.FitnessMax),
		slog.Float64("fitness_avg", s.FitnessAvg),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("generation_mean", s.GenerationMean),
		slog.Uint64("generation_max", uint64(s.GenerationMax)),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("speed_mean", s.SpeedMean),
	)
}

// LogStats logs the headline numbers of the window.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"food", s.FoodCount,
		"births", s.Births,
		"deaths", s.Deaths,
		"meals", s.Meals,
		"fitness_max", s.FitnessMax,
		"fitness_avg", s.FitnessAvg,
		"energy_p50", s.EnergyP50,
		"generation_max", s.GenerationMax,
	)
}
