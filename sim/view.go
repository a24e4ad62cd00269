package sim

import (
	"github.com/pthm-cable/forage/systems"
)

// CreatureView is a read-only copy of one creature's observable state.
type CreatureView struct {
	ID         uint32
	X, Y       float32
	Rotation   float32
	Speed      float32
	Energy     float32
	Size       float32
	Color      float32
	Fitness    float32
	Satiation  uint32
	Generation uint32
}

// FoodView is a read-only copy of one food's position.
type FoodView struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// WorldView is a snapshot of the world, both lists in world order.
type WorldView struct {
	Tick       uint64
	FoodTarget int
	Creatures  []CreatureView
	Foods      []FoodView
}

// World returns a snapshot of the current world. It shares no memory with
// the simulation.
func (s *Simulation) World() WorldView {
	view := WorldView{
		Tick:       s.tick,
		FoodTarget: s.foodTarget,
		Creatures:  make([]CreatureView, 0, s.population),
	}

	query := s.creatureFilter.Query()
	for query.Next() {
		pos, body, _, _, org := query.Get()
		view.Creatures = append(view.Creatures, CreatureView{
			ID:         org.ID,
			X:          pos.X,
			Y:          pos.Y,
			Rotation:   body.Rotation,
			Speed:      body.Speed,
			Energy:     body.Energy,
			Size:       body.Size,
			Color:      body.Color,
			Fitness:    systems.Fitness(*body, *org),
			Satiation:  org.Satiation,
			Generation: org.Generation,
		})
	}

	foods := s.foodFilter.Query()
	for foods.Next() {
		pos, _ := foods.Get()
		view.Foods = append(view.Foods, FoodView{X: pos.X, Y: pos.Y})
	}

	return view
}

// Specimen is a creature's identity together with its heritable genes.
type Specimen struct {
	ID         uint32
	Generation uint32
	Fitness    float32
	Genes      []float32
}

// Specimens snapshots every creature's chromosome, in world order.
func (s *Simulation) Specimens() []Specimen {
	var out []Specimen
	query := s.creatureFilter.Query()
	for query.Next() {
		_, body, _, brain, org := query.Get()
		genome := systems.Genome{Brain: brain.Net, Size: body.Size, Color: body.Color}
		out = append(out, Specimen{
			ID:         org.ID,
			Generation: org.Generation,
			Fitness:    systems.Fitness(*body, *org),
			Genes:      genome.Chromosome().Floats(),
		})
	}
	return out
}
