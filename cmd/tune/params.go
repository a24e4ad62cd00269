package main

import (
	"github.com/pthm-cable/forage/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // config key
	Min     float64 // lower bound
	Max     float64 // upper bound
	Default float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// mutation operator and the energy economy.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "mutation_rate", Min: 0.001, Max: 0.2, Default: 0.01,
				get: func(c *config.Config) float64 { return float64(c.MutationRate) },
				set: func(c *config.Config, v float64) { c.MutationRate = float32(v) },
			},
			{
				Name: "mutation_strength", Min: 0.05, Max: 1.0, Default: 0.3,
				get: func(c *config.Config) float64 { return float64(c.MutationStrength) },
				set: func(c *config.Config, v float64) { c.MutationStrength = float32(v) },
			},
			{
				Name: "energy_loss_factor", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return float64(c.EnergyLossFactor) },
				set: func(c *config.Config, v float64) { c.EnergyLossFactor = float32(v) },
			},
			{
				Name: "food_energy", Min: 10, Max: 100, Default: 40,
				get: func(c *config.Config) float64 { return float64(c.FoodEnergy) },
				set: func(c *config.Config, v float64) { c.FoodEnergy = float32(v) },
			},
			{
				Name: "reproduction_threshold", Min: 100, Max: 300, Default: 150,
				get: func(c *config.Config) float64 { return float64(c.ReproductionThreshold) },
				set: func(c *config.Config, v float64) { c.ReproductionThreshold = float32(v) },
			},
			{
				Name: "reproduction_cost", Min: 10, Max: 100, Default: 50,
				get: func(c *config.Config) float64 { return float64(c.ReproductionCost) },
				set: func(c *config.Config, v float64) { c.ReproductionCost = float32(v) },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = spec.get(cfg)
	}
	return values
}
