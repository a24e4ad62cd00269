package systems

import "math"

const (
	pi    = float32(math.Pi)
	twoPi = float32(2 * math.Pi)
)

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	return clampFloat(v, 0, 1)
}

// wrapAngle wraps an angle to (-Pi, Pi].
func wrapAngle(angle float32) float32 {
	for angle > pi {
		angle -= twoPi
	}
	for angle <= -pi {
		angle += twoPi
	}
	return angle
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Hypot(float64(x2-x1), float64(y2-y1)))
}
