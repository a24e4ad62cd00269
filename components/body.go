package components

// Body holds a creature's physical state.
type Body struct {
	Size     float32 // diameter, heritable
	Color    float32 // heritable, [0, 1]
	Rotation float32 // heading in radians
	Speed    float32 // per-tick displacement, clamped to [speed_min, speed_max]
	Energy   float32 // dies at or below zero
}

// Eye holds a creature's sensor parameters, fixed at birth.
type Eye struct {
	FOVRange float32 // sensing radius
	FOVAngle float32 // total aperture, symmetric about heading
	Cells    int     // angular resolution
}
