package systems

import (
	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
)

// DrainEnergy charges one tick of metabolism:
// energy_loss_factor · (|rotationDelta| + speed + size_energy_factor·size)².
func DrainEnergy(body *components.Body, rotationDelta float32, cfg *config.Config) {
	if rotationDelta < 0 {
		rotationDelta = -rotationDelta
	}
	load := rotationDelta + body.Speed + cfg.SizeEnergyFactor*body.Size
	body.Energy -= cfg.EnergyLossFactor * load * load
}

// Fitness is the satiation count, or 0 once energy is exhausted.
func Fitness(body components.Body, org components.Organism) float32 {
	if body.Energy <= 0 {
		return 0
	}
	return float32(org.Satiation)
}
