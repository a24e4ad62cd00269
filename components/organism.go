package components

import "github.com/pthm-cable/forage/neural"

// Brain wraps the network that maps eye cells to steering deltas.
type Brain struct {
	Net *neural.Network
}

// Organism bundles identity and lineage state.
type Organism struct {
	ID         uint32
	Satiation  uint32 // food items eaten, the fitness signal
	Generation uint32 // 0 for founders, max(parents)+1 for offspring
}
