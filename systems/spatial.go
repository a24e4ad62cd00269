package systems

import (
	"slices"

	"github.com/pthm-cable/forage/components"
)

// maxGridCols bounds the grid resolution for very small query radii.
const maxGridCols = 64

// FoodGrid buckets food indices by position over the unit square so that
// vision only scans nearby food.
type FoodGrid struct {
	cellSize float32
	cols     int
	cells    [][]int // food indices per cell, row-major
}

// NewFoodGrid creates a grid sized for queries of the given radius.
func NewFoodGrid(radius float32) *FoodGrid {
	cellSize := max(radius, 1.0/maxGridCols)
	cols := int(1/cellSize) + 1

	cells := make([][]int, cols*cols)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &FoodGrid{
		cellSize: cellSize,
		cols:     cols,
		cells:    cells,
	}
}

// Rebuild replaces the grid contents with foods, keyed by slice index.
func (g *FoodGrid) Rebuild(foods []components.Position) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i, f := range foods {
		idx := g.cellIndex(f.X, f.Y)
		g.cells[idx] = append(g.cells[idx], i)
	}
}

// QueryInto appends to dst the indices of every food within radius of
// (x, y) and returns the result sorted ascending, so callers visit food in
// the same order as a full scan would. Reuse dst across calls.
func (g *FoodGrid) QueryInto(dst []int, foods []components.Position, x, y, radius float32) []int {
	dst = dst[:0]
	span := int(radius/g.cellSize) + 1

	centerCol := g.clampCol(int(x / g.cellSize))
	centerRow := g.clampCol(int(y / g.cellSize))

	for row := max(centerRow-span, 0); row <= min(centerRow+span, g.cols-1); row++ {
		for col := max(centerCol-span, 0); col <= min(centerCol+span, g.cols-1); col++ {
			for _, i := range g.cells[row*g.cols+col] {
				if Distance(x, y, foods[i].X, foods[i].Y) < radius {
					dst = append(dst, i)
				}
			}
		}
	}

	slices.Sort(dst)
	return dst
}

func (g *FoodGrid) clampCol(c int) int {
	return min(max(c, 0), g.cols-1)
}

func (g *FoodGrid) cellIndex(x, y float32) int {
	col := g.clampCol(int(x / g.cellSize))
	row := g.clampCol(int(y / g.cellSize))
	return row*g.cols + col
}
