// Package sim runs the creature world: foraging creatures with evolved
// brains, food homeostasis, and continuous pairwise reproduction.
//
// Creatures and food are ECS entities. Every per-tick phase visits them in
// ECS query order, which is deterministic for a fixed seed.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/systems"
)

// Phase names reported to a PhaseTimer, in execution order.
const (
	PhaseSense     = "sense"
	PhaseMove      = "move"
	PhaseFeed      = "feed"
	PhaseReproduce = "reproduce"
	PhaseDeath     = "death"
	PhaseFood      = "food"
)

// Phases lists every phase in execution order.
var Phases = []string{PhaseSense, PhaseMove, PhaseFeed, PhaseReproduce, PhaseDeath, PhaseFood}

// PhaseTimer receives phase boundaries during Step.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// TickStats counts the events of the most recent tick.
type TickStats struct {
	Births int
	Deaths int
	Meals  int
}

// Simulation owns the world and advances it one tick at a time.
type Simulation struct {
	cfg *config.Config
	ga  *genetic.GeneticAlgorithm
	eye components.Eye

	world *ecs.World

	creatureMapper *ecs.Map5[
		components.Position,
		components.Body,
		components.Eye,
		components.Brain,
		components.Organism,
	]
	creatureFilter *ecs.Filter5[
		components.Position,
		components.Body,
		components.Eye,
		components.Brain,
		components.Organism,
	]
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]

	posMap   *ecs.Map1[components.Position]
	bodyMap  *ecs.Map1[components.Body]
	brainMap *ecs.Map1[components.Brain]
	orgMap   *ecs.Map1[components.Organism]

	grid     *systems.FoodGrid
	parallel *parallelState
	timer    PhaseTimer

	tick       uint64
	nextID     uint32
	population int
	foodTarget int
	last       TickStats

	// Per-tick scratch, reused to avoid allocation.
	foodEntities []ecs.Entity
	foodPos      []components.Position
}

// New builds a random world: population_count founders and the food count
// that homeostasis targets for that population.
func New(rng *rand.Rand, cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := ecs.NewWorld()
	eye := systems.NewEye(cfg.FOVRange, cfg.FOVAngle, cfg.EyeCells)

	s := &Simulation{
		cfg:   cfg,
		ga:    genetic.NewDefault(cfg.MutationRate, cfg.MutationStrength),
		eye:   eye,
		world: world,
		creatureMapper: ecs.NewMap5[
			components.Position,
			components.Body,
			components.Eye,
			components.Brain,
			components.Organism,
		](world),
		creatureFilter: ecs.NewFilter5[
			components.Position,
			components.Body,
			components.Eye,
			components.Brain,
			components.Organism,
		](world),
		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		posMap:     ecs.NewMap1[components.Position](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		brainMap:   ecs.NewMap1[components.Brain](world),
		orgMap:     ecs.NewMap1[components.Organism](world),
		grid:       systems.NewFoodGrid(eye.FOVRange),
	}
	s.SetWorkers(1)

	for range cfg.PopulationCount {
		genome := systems.RandomGenome(rng, eye, cfg)
		pos := randomPosition(rng)
		s.spawnCreature(pos, genome, randomHeading(rng), cfg.StartingEnergy, 0)
	}

	s.foodTarget = FoodTarget(cfg, s.population)
	for range s.foodTarget {
		s.spawnFood(rng)
	}

	slog.Debug("simulation created",
		"creatures", s.population,
		"food", s.foodTarget,
		"chromosome_len", systems.ChromosomeLen(eye),
	)
	return s, nil
}

// SetPhaseTimer installs a timer notified of phase boundaries; nil disables.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Age returns the number of completed ticks.
func (s *Simulation) Age() uint64 {
	return s.tick
}

// Population returns the number of living creatures.
func (s *Simulation) Population() int {
	return s.population
}

// Extinct reports whether every creature has died.
func (s *Simulation) Extinct() bool {
	return s.population == 0
}

// FoodTarget returns the food count homeostasis last aimed for.
func (s *Simulation) FoodTarget() int {
	return s.foodTarget
}

// LastTick returns the event counts of the most recent Step.
func (s *Simulation) LastTick() TickStats {
	return s.last
}

// Step advances the world by one tick.
func (s *Simulation) Step(rng *rand.Rand) {
	s.last = TickStats{}
	s.startTick()

	s.startPhase(PhaseSense)
	s.sense()

	s.startPhase(PhaseMove)
	s.move()

	s.startPhase(PhaseFeed)
	s.feed(rng)

	s.startPhase(PhaseReproduce)
	s.reproduce(rng)

	s.startPhase(PhaseDeath)
	s.removeDead()

	s.startPhase(PhaseFood)
	s.balanceFood(rng)

	s.tick++
	s.endTick()

	if s.last.Deaths > 0 && s.population == 0 {
		slog.Debug("population extinct", "tick", s.tick)
	}
}

func (s *Simulation) startTick() {
	if s.timer != nil {
		s.timer.StartTick()
	}
}

func (s *Simulation) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

func (s *Simulation) endTick() {
	if s.timer != nil {
		s.timer.EndTick()
	}
}

// FoodTarget computes the homeostatic food count for a population:
// food_count · exp((target − population) / (target · 0.5)), clamped to
// [0, 3·food_count] and truncated.
func FoodTarget(cfg *config.Config, population int) int {
	target := float64(cfg.TargetPopulation)
	k := math.Exp((target - float64(population)) / (target * 0.5))

	base := float64(cfg.FoodCount)
	return int(min(max(base*k, 0), 3*base))
}

func randomPosition(rng *rand.Rand) components.Position {
	x := rng.Float32()
	y := rng.Float32()
	return components.Position{X: x, Y: y}
}

func randomHeading(rng *rand.Rand) float32 {
	return rng.Float32() * 2 * math.Pi
}

// spawnCreature adds a creature at the end of world order.
func (s *Simulation) spawnCreature(pos components.Position, genome systems.Genome, heading, energy float32, generation uint32) ecs.Entity {
	body := components.Body{
		Size:     genome.Size,
		Color:    genome.Color,
		Rotation: heading,
		Speed:    s.cfg.SpeedMin,
		Energy:   energy,
	}
	eye := s.eye
	brain := components.Brain{Net: genome.Brain}
	org := components.Organism{ID: s.nextID, Generation: generation}
	s.nextID++
	s.population++

	return s.creatureMapper.NewEntity(&pos, &body, &eye, &brain, &org)
}

func (s *Simulation) spawnFood(rng *rand.Rand) ecs.Entity {
	pos := randomPosition(rng)
	return s.foodMapper.NewEntity(&pos, &components.Food{})
}

// genome reads the heritable state of a creature back out of the world.
func (s *Simulation) genome(e ecs.Entity) systems.Genome {
	body := s.bodyMap.Get(e)
	return systems.Genome{
		Brain: s.brainMap.Get(e).Net,
		Size:  body.Size,
		Color: body.Color,
	}
}

// Individuals snapshots every creature as a GA individual.
func (s *Simulation) Individuals() []genetic.Individual {
	var entities []ecs.Entity
	query := s.creatureFilter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}

	out := make([]genetic.Individual, len(entities))
	for i, e := range entities {
		fitness := systems.Fitness(*s.bodyMap.Get(e), *s.orgMap.Get(e))
		out[i] = systems.NewCreatureIndividual(fitness, s.genome(e))
	}
	return out
}
