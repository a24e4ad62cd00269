package sim

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/neural"
	"github.com/pthm-cable/forage/systems"
)

// parallelThreshold is the minimum creature count to sense in parallel.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// senseSnapshot captures the read-only inputs of one creature's sense step.
type senseSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
	Body   components.Body
	Eye    components.Eye
	Brain  *neural.Network
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	visible []int
	nearby  []components.Position
	vision  []float32
}

// parallelState holds resources for parallel sensing.
type parallelState struct {
	snapshots  []senseSnapshot
	intents    []components.Body // updated bodies, applied after compute
	scratches  []workerScratch
	numWorkers int
}

func newParallelState(numWorkers, eyeCells int) *parallelState {
	numWorkers = max(numWorkers, 1)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].vision = make([]float32, eyeCells)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
	}
}

// SetWorkers sets how many goroutines the sense phase may use. New
// simulations sense on one goroutine. Results do not depend on the worker
// count. n < 1 selects GOMAXPROCS.
func (s *Simulation) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	s.parallel = newParallelState(n, s.eye.Cells)
}

// sense runs vision and inference for every creature, then applies the
// steering outputs and the metabolic cost of the resulting maneuver.
func (s *Simulation) sense() {
	s.collectFood()
	s.grid.Rebuild(s.foodPos)

	// Phase A: snapshot (single-threaded)
	p := s.parallel
	p.snapshots = p.snapshots[:0]
	query := s.creatureFilter.Query()
	for query.Next() {
		pos, body, eye, brain, _ := query.Get()
		p.snapshots = append(p.snapshots, senseSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
			Body:   *body,
			Eye:    *eye,
			Brain:  brain.Net,
		})
	}

	n := len(p.snapshots)
	if n == 0 {
		return
	}
	if cap(p.intents) < n {
		p.intents = make([]components.Body, n)
	}
	p.intents = p.intents[:n]

	// Phase B: compute
	if n < parallelThreshold || p.numWorkers == 1 {
		s.senseChunk(0, n, &p.scratches[0])
	} else {
		s.senseParallel(n)
	}

	// Phase C: apply intents in world order
	for i, snap := range p.snapshots {
		*s.bodyMap.Get(snap.Entity) = p.intents[i]
	}
}

func (s *Simulation) senseParallel(n int) {
	p := s.parallel
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	var wg sync.WaitGroup
	for w := range p.numWorkers {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.senseChunk(start, end, &p.scratches[w])
		}()
	}
	wg.Wait()
}

// senseChunk computes intents for snapshots [start, end). It reads only
// shared immutable state: the food grid, food positions and the config.
func (s *Simulation) senseChunk(start, end int, scratch *workerScratch) {
	p := s.parallel
	for i := start; i < end; i++ {
		snap := &p.snapshots[i]

		scratch.visible = s.grid.QueryInto(scratch.visible, s.foodPos, snap.Pos.X, snap.Pos.Y, snap.Eye.FOVRange)
		scratch.nearby = scratch.nearby[:0]
		for _, j := range scratch.visible {
			scratch.nearby = append(scratch.nearby, s.foodPos[j])
		}

		systems.ProcessVisionInto(scratch.vision, snap.Eye, snap.Pos, snap.Body.Rotation, scratch.nearby)
		outputs := snap.Brain.Propagate(scratch.vision)

		body := snap.Body
		delta := systems.Steer(&body, outputs, s.cfg)
		systems.DrainEnergy(&body, delta, s.cfg)
		p.intents[i] = body
	}
}
