package main

import "math"

const (
	CrystalsPerRound  = 5
	CrystalMinEnergy  = 20
	CrystalMaxEnergy  = 35
	CrystalRespawnMin = 9.0
	CrystalRespawnMax = 16.0
)

// Crystal is an energy pickup
type Crystal struct {
	ID        int
	Position  Vec3
	Radius    float64
	Energy    int
	Active    bool
	RespawnAt float64
}

// spawnCrystal places a new active crystal somewhere in the arena
func (w *World) spawnCrystal() {
	angle := randRange(w.rng, 0, 2*math.Pi)
	radius := randRange(w.rng, 420, 1900)
	w.nextCrystalID++
	w.Crystals = append(w.Crystals, &Crystal{
		ID: w.nextCrystalID,
		Position: Vec3{
			X: math.Cos(angle) * radius,
			Y: randRange(w.rng, -260, 260),
			Z: math.Sin(angle) * radius,
		},
		Radius: randRange(w.rng, 12, 20),
		Energy: randInt(w.rng, CrystalMinEnergy, CrystalMaxEnergy),
		Active: true,
	})
}

// respawnCrystals reactivates collected crystals whose timer has run out
func (w *World) respawnCrystals() {
	for _, c := range w.Crystals {
		if c.Active || w.RoundTimer < c.RespawnAt {
			continue
		}
		c.Active = true
		c.Position = orbitalSpawn(w.rng, w.rng.Float64(), 1)
		c.Position.Y = randRange(w.rng, -240, 240)
	}
}

// collectCrystals gives p the energy of every active crystal it touches
func (w *World) collectCrystals(p *Player) {
	for _, c := range w.Crystals {
		if !c.Active || p.Position.DistanceTo(c.Position) >= c.Radius+ShipRadius {
			continue
		}
		p.Energy = Clamp(p.Energy+float64(c.Energy), 0, EnergyMax)
		c.Active = false
		c.RespawnAt = w.RoundTimer + randRange(w.rng, CrystalRespawnMin, CrystalRespawnMax)
	}
}
