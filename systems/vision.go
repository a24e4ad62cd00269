package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/forage/components"
)

// NewEye builds an eye, panicking on parameters that config validation
// should already have rejected.
func NewEye(fovRange, fovAngle float32, cells int) components.Eye {
	if fovRange <= 0 || fovAngle <= 0 || cells < 1 {
		panic(fmt.Sprintf("systems: invalid eye (range %v, angle %v, cells %d)", fovRange, fovAngle, cells))
	}
	return components.Eye{FOVRange: fovRange, FOVAngle: fovAngle, Cells: cells}
}

// ProcessVision returns one activation per eye cell for the given foods.
func ProcessVision(eye components.Eye, pos components.Position, rotation float32, foods []components.Position) []float32 {
	out := make([]float32, eye.Cells)
	ProcessVisionInto(out, eye, pos, rotation, foods)
	return out
}

// ProcessVisionInto is ProcessVision writing into dst, which must hold
// exactly eye.Cells values. dst is zeroed first.
//
// Each food closer than FOVRange and within FOVAngle/2 of the heading adds
// (FOVRange-dist)/FOVRange to the cell covering its bearing. Cell 0 is the
// clockwise edge of the field of view.
func ProcessVisionInto(dst []float32, eye components.Eye, pos components.Position, rotation float32, foods []components.Position) {
	if len(dst) != eye.Cells {
		panic(fmt.Sprintf("systems: vision buffer has %d cells, eye has %d", len(dst), eye.Cells))
	}
	clear(dst)

	half := eye.FOVAngle / 2
	for _, food := range foods {
		dx := food.X - pos.X
		dy := food.Y - pos.Y

		dist := float32(math.Hypot(float64(dx), float64(dy)))
		if dist >= eye.FOVRange {
			continue
		}

		angle := wrapAngle(float32(math.Atan2(float64(dy), float64(dx))) - rotation)
		if angle < -half || angle > half {
			continue
		}

		cell := int((angle + half) / eye.FOVAngle * float32(eye.Cells))
		cell = min(cell, eye.Cells-1)

		dst[cell] += (eye.FOVRange - dist) / eye.FOVRange
	}
}
