// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// iniSection is the section read from .ini config files.
const iniSection = "simulation"

// Config holds every simulation tunable. It is built once and passed by
// pointer into the simulation; nothing mutates it after Validate.
type Config struct {
	// Population
	PopulationCount  int `yaml:"population_count" ini:"population_count"`   // creatures spawned at world init
	TargetPopulation int `yaml:"target_population" ini:"target_population"` // population food homeostasis steers toward

	// Food
	FoodCount  int     `yaml:"food_count" ini:"food_count"`   // base food count at target population
	FoodSize   float32 `yaml:"food_size" ini:"food_size"`     // food diameter
	FoodEnergy float32 `yaml:"food_energy" ini:"food_energy"` // energy granted per food eaten

	// Body
	CreatureSize   float32 `yaml:"creature_size" ini:"creature_size"`     // nominal creature diameter
	StartingEnergy float32 `yaml:"starting_energy" ini:"starting_energy"` // energy of founders

	// Energy economy
	EnergyLossFactor float32 `yaml:"energy_loss_factor" ini:"energy_loss_factor"` // scale of the quadratic drain
	SizeEnergyFactor float32 `yaml:"size_energy_factor" ini:"size_energy_factor"` // weight of size inside the drain

	// Motion
	SpeedMin      float32 `yaml:"speed_min" ini:"speed_min"`
	SpeedMax      float32 `yaml:"speed_max" ini:"speed_max"`
	SpeedAccel    float32 `yaml:"speed_accel" ini:"speed_accel"`       // max speed change per tick
	RotationAccel float32 `yaml:"rotation_accel" ini:"rotation_accel"` // max heading change per tick (radians)

	// Reproduction
	ReproductionThreshold float32 `yaml:"reproduction_threshold" ini:"reproduction_threshold"`
	ReproductionCost      float32 `yaml:"reproduction_cost" ini:"reproduction_cost"` // charged to each parent

	// Genetic algorithm
	MutationRate     float32 `yaml:"mutation_rate" ini:"mutation_rate"`         // probability a gene mutates
	MutationStrength float32 `yaml:"mutation_strength" ini:"mutation_strength"` // perturbation magnitude

	// Vision
	FOVRange float32 `yaml:"fov_range" ini:"fov_range"`
	FOVAngle float32 `yaml:"fov_angle" ini:"fov_angle"`
	EyeCells int     `yaml:"eye_cells" ini:"eye_cells"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are corrupt: %v", err))
	}
	return cfg
}

// Load loads configuration from a file, merging it over the embedded defaults.
// Files ending in .ini are read from their [simulation] section; anything else
// is parsed as YAML. If path is empty, only the defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ini":
			f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			// MapTo only overwrites keys present in the section.
			if err := f.Section(iniSection).MapTo(cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every tunable that is outside its documented range.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.PopulationCount >= 1, "population_count must be >= 1, got %d", c.PopulationCount)
	check(c.TargetPopulation >= 1, "target_population must be >= 1, got %d", c.TargetPopulation)
	check(c.FoodCount >= 0, "food_count must be >= 0, got %d", c.FoodCount)
	check(c.FoodSize > 0, "food_size must be > 0, got %g", c.FoodSize)
	check(c.FoodEnergy >= 0, "food_energy must be >= 0, got %g", c.FoodEnergy)
	check(c.CreatureSize > 0, "creature_size must be > 0, got %g", c.CreatureSize)
	check(c.StartingEnergy > 0, "starting_energy must be > 0, got %g", c.StartingEnergy)
	check(c.EnergyLossFactor >= 0, "energy_loss_factor must be >= 0, got %g", c.EnergyLossFactor)
	check(c.SizeEnergyFactor >= 0, "size_energy_factor must be >= 0, got %g", c.SizeEnergyFactor)
	check(c.SpeedMin >= 0, "speed_min must be >= 0, got %g", c.SpeedMin)
	check(c.SpeedMax >= c.SpeedMin, "speed_max (%g) must be >= speed_min (%g)", c.SpeedMax, c.SpeedMin)
	check(c.SpeedAccel >= 0, "speed_accel must be >= 0, got %g", c.SpeedAccel)
	check(c.RotationAccel >= 0, "rotation_accel must be >= 0, got %g", c.RotationAccel)
	check(c.ReproductionThreshold > 0, "reproduction_threshold must be > 0, got %g", c.ReproductionThreshold)
	check(c.ReproductionCost >= 0, "reproduction_cost must be >= 0, got %g", c.ReproductionCost)
	check(c.MutationRate >= 0 && c.MutationRate <= 1, "mutation_rate must be in [0, 1], got %g", c.MutationRate)
	check(c.MutationStrength >= 0, "mutation_strength must be >= 0, got %g", c.MutationStrength)
	check(c.FOVRange > 0, "fov_range must be > 0, got %g", c.FOVRange)
	check(c.FOVAngle > 0 && c.FOVAngle <= 2*math.Pi+1e-6, "fov_angle must be in (0, 2pi], got %g", c.FOVAngle)
	check(c.EyeCells >= 1, "eye_cells must be >= 1, got %d", c.EyeCells)

	return errors.Join(errs...)
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
