package components

// Position is a location in the unit square [0,1]².
type Position struct {
	X, Y float32
}

// Food tags a food entity. Food has no state beyond its Position.
type Food struct{}
