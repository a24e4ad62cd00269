package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/forage/components"
)

func randomFoods(rng *rand.Rand, n int) []components.Position {
	foods := make([]components.Position, n)
	for i := range foods {
		foods[i] = components.Position{X: rng.Float32(), Y: rng.Float32()}
	}
	return foods
}

func TestFoodGridMatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	foods := randomFoods(rng, 300)
	eye := NewEye(0.25, 3.9269908, 9)

	grid := NewFoodGrid(eye.FOVRange)
	grid.Rebuild(foods)

	var idx []int
	var nearby []components.Position
	for range 100 {
		pos := components.Position{X: rng.Float32(), Y: rng.Float32()}
		rotation := rng.Float32() * twoPi

		idx = grid.QueryInto(idx, foods, pos.X, pos.Y, eye.FOVRange)
		nearby = nearby[:0]
		for _, i := range idx {
			nearby = append(nearby, foods[i])
		}

		want := ProcessVision(eye, pos, rotation, foods)
		got := ProcessVision(eye, pos, rotation, nearby)
		for c := range want {
			if got[c] != want[c] {
				t.Fatalf("at %+v cell %d: grid %g, full scan %g", pos, c, got[c], want[c])
			}
		}
	}
}

func TestFoodGridQuerySorted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	foods := randomFoods(rng, 200)
	grid := NewFoodGrid(0.3)
	grid.Rebuild(foods)

	idx := grid.QueryInto(nil, foods, 0.5, 0.5, 0.3)
	if len(idx) == 0 {
		t.Fatal("expected some food near the centre")
	}
	for i := 1; i < len(idx); i++ {
		if idx[i-1] >= idx[i] {
			t.Fatalf("indices not strictly ascending: %v", idx)
		}
	}
	for _, i := range idx {
		if Distance(0.5, 0.5, foods[i].X, foods[i].Y) >= 0.3 {
			t.Errorf("food %d outside query radius", i)
		}
	}
}

func TestFoodGridEdges(t *testing.T) {
	foods := []components.Position{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	grid := NewFoodGrid(0.1)
	grid.Rebuild(foods)

	if got := grid.QueryInto(nil, foods, 0.99, 0.99, 0.1); len(got) != 1 || got[0] != 1 {
		t.Errorf("corner query = %v, want [1]", got)
	}
	if got := grid.QueryInto(nil, foods, 0.5, 0.5, 0.1); len(got) != 0 {
		t.Errorf("empty centre query = %v", got)
	}
}

func TestFoodGridTinyRadius(t *testing.T) {
	grid := NewFoodGrid(0.0001)
	if grid.cols > maxGridCols+1 {
		t.Errorf("grid has %d columns, want at most %d", grid.cols, maxGridCols+1)
	}
}

func BenchmarkProcessVision(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	foods := randomFoods(rng, 120)
	eye := NewEye(0.25, 3.9269908, 9)
	pos := components.Position{X: 0.5, Y: 0.5}
	out := make([]float32, eye.Cells)

	b.ResetTimer()
	for b.Loop() {
		ProcessVisionInto(out, eye, pos, 0.3, foods)
	}
}
