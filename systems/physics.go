package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
)

// Steer applies brain outputs (Δspeed, Δrotation) to the body. Each delta is
// clamped to its acceleration limit and speed to [speed_min, speed_max].
// Returns the rotation delta actually applied.
func Steer(body *components.Body, outputs []float32, cfg *config.Config) float32 {
	if len(outputs) != 2 {
		panic(fmt.Sprintf("systems: brain produced %d outputs, want 2", len(outputs)))
	}

	dSpeed := clampFloat(outputs[0], -cfg.SpeedAccel, cfg.SpeedAccel)
	dRotation := clampFloat(outputs[1], -cfg.RotationAccel, cfg.RotationAccel)

	body.Speed = clampFloat(body.Speed+dSpeed, cfg.SpeedMin, cfg.SpeedMax)
	body.Rotation = wrapAngle(body.Rotation + dRotation)
	return dRotation
}

// Move advances pos along the heading by the body's speed, clamped to the
// unit square. The world has walls, not wraparound.
func Move(pos *components.Position, body components.Body) {
	sin, cos := math.Sincos(float64(body.Rotation))
	pos.X = clamp01(pos.X + float32(cos)*body.Speed)
	pos.Y = clamp01(pos.Y + float32(sin)*body.Speed)
}
