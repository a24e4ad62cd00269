package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/systems"
)

// collectFood snapshots food entities and positions in world order.
func (s *Simulation) collectFood() {
	s.foodEntities = s.foodEntities[:0]
	s.foodPos = s.foodPos[:0]

	query := s.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		s.foodEntities = append(s.foodEntities, query.Entity())
		s.foodPos = append(s.foodPos, *pos)
	}
}

func (s *Simulation) move() {
	query := s.creatureFilter.Query()
	for query.Next() {
		pos, body, _, _, _ := query.Get()
		systems.Move(pos, *body)
	}
}

// feed lets every creature eat each food it touches. Eaten food relocates
// immediately, so a later creature may find it again in the same tick.
func (s *Simulation) feed(rng *rand.Rand) {
	query := s.creatureFilter.Query()
	for query.Next() {
		pos, body, _, _, org := query.Get()
		radius := (body.Size + s.cfg.FoodSize) / 2

		for _, fe := range s.foodEntities {
			food := s.posMap.Get(fe)
			if systems.Distance(pos.X, pos.Y, food.X, food.Y) > radius {
				continue
			}

			body.Energy += s.cfg.FoodEnergy
			org.Satiation++
			*food = randomPosition(rng)
			s.last.Meals++
		}
	}
}

type candidate struct {
	entity     ecs.Entity
	pos        components.Position
	generation uint32
}

// reproduce pairs every candidate with its nearest unpaired candidate.
// Ties go to the partner earliest in world order. Offspring join the end
// of world order and are not candidates until the next tick.
func (s *Simulation) reproduce(rng *rand.Rand) {
	var candidates []candidate
	query := s.creatureFilter.Query()
	for query.Next() {
		pos, body, _, _, org := query.Get()
		if body.Energy >= s.cfg.ReproductionThreshold {
			candidates = append(candidates, candidate{
				entity:     query.Entity(),
				pos:        *pos,
				generation: org.Generation,
			})
		}
	}

	paired := make([]bool, len(candidates))
	for i := range candidates {
		if paired[i] {
			continue
		}

		partner := -1
		var best float32
		for j := range candidates {
			if j == i || paired[j] {
				continue
			}
			d := systems.Distance(candidates[i].pos.X, candidates[i].pos.Y, candidates[j].pos.X, candidates[j].pos.Y)
			if partner < 0 || d < best {
				partner, best = j, d
			}
		}
		if partner < 0 {
			continue
		}

		paired[i], paired[partner] = true, true
		s.breed(rng, candidates[i], candidates[partner])
	}
}

func (s *Simulation) breed(rng *rand.Rand, a, b candidate) {
	s.bodyMap.Get(a.entity).Energy -= s.cfg.ReproductionCost
	s.bodyMap.Get(b.entity).Energy -= s.cfg.ReproductionCost

	child := s.ga.Breed(rng, s.genome(a.entity).Chromosome(), s.genome(b.entity).Chromosome())
	genome := systems.GenomeFromChromosome(child, s.eye, s.cfg)

	pos := components.Position{
		X: (a.pos.X + b.pos.X) / 2,
		Y: (a.pos.Y + b.pos.Y) / 2,
	}
	generation := max(a.generation, b.generation) + 1

	s.spawnCreature(pos, genome, randomHeading(rng), 2*s.cfg.ReproductionCost, generation)
	s.last.Births++
}

// removeDead deletes every creature whose energy is exhausted.
func (s *Simulation) removeDead() {
	var dead []ecs.Entity
	query := s.creatureFilter.Query()
	for query.Next() {
		_, body, _, _, _ := query.Get()
		if body.Energy <= 0 {
			dead = append(dead, query.Entity())
		}
	}

	for _, e := range dead {
		s.world.RemoveEntity(e)
	}
	s.population -= len(dead)
	s.last.Deaths = len(dead)
}

// balanceFood grows or truncates the food list toward the homeostatic
// target for the current population.
func (s *Simulation) balanceFood(rng *rand.Rand) {
	target := FoodTarget(s.cfg, s.population)
	s.foodTarget = target

	s.collectFood()
	have := len(s.foodEntities)

	for range target - have {
		s.spawnFood(rng)
	}
	for i := have - 1; i >= target; i-- {
		s.world.RemoveEntity(s.foodEntities[i])
	}
}
