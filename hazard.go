package main

import "math/rand"

// HazardType names a global timed event
type HazardType string

const (
	HazardNone         HazardType = "none"
	HazardSolarStorm   HazardType = "solar-storm"
	HazardAsteroidRain HazardType = "asteroid-rain"
	HazardGravityFlux  HazardType = "gravity-flux"
	HazardNebulaSurge  HazardType = "nebula-surge"
)

// Event scheduling, in round seconds
const (
	HazardMinGap   = 120.0
	HazardMaxGap   = 180.0
	HazardDuration = 22.0
)

var hazardPool = []HazardType{HazardSolarStorm, HazardAsteroidRain, HazardGravityFlux, HazardNebulaSurge}

// Modifiers are the simulation rules in force for one tick
type Modifiers struct {
	PlasmaDamageMul         float64
	MissileTrackingDisabled bool
	HeavyShips              bool
	RadarDisabled           bool
	AsteroidRain            bool
}

// ModifiersFor maps a hazard to its rule set
func ModifiersFor(h HazardType) Modifiers {
	m := Modifiers{PlasmaDamageMul: 1}
	switch h {
	case HazardSolarStorm:
		m.PlasmaDamageMul = 1.5
		m.MissileTrackingDisabled = true
	case HazardAsteroidRain:
		m.AsteroidRain = true
	case HazardGravityFlux:
		m.HeavyShips = true
	case HazardNebulaSurge:
		m.RadarDisabled = true
	}
	return m
}

// HazardScheduler picks at most one active hazard at a time
type HazardScheduler struct {
	Active HazardType
	EndsAt float64
	NextAt float64
}

// Reset clears any active hazard and schedules the first one after now
func (s *HazardScheduler) Reset(now float64, rng *rand.Rand) {
	s.Active = HazardNone
	s.EndsAt = 0
	s.NextAt = now + randRange(rng, HazardMinGap, HazardMaxGap)
}

// Update starts or ends a hazard at time now. It returns the hazard that
// started and the one that ended this call, HazardNone otherwise.
func (s *HazardScheduler) Update(now float64, rng *rand.Rand) (started, ended HazardType) {
	started, ended = HazardNone, HazardNone
	if s.Active == HazardNone && now >= s.NextAt {
		s.Active = hazardPool[rng.Intn(len(hazardPool))]
		s.EndsAt = now + HazardDuration
		started = s.Active
	}
	if s.Active != HazardNone && now >= s.EndsAt {
		ended = s.Active
		s.Active = HazardNone
		s.EndsAt = 0
		s.NextAt = now + randRange(rng, HazardMinGap, HazardMaxGap)
	}
	return started, ended
}

// Remaining is the time left on the active hazard
func (s *HazardScheduler) Remaining(now float64) float64 {
	if s.Active == HazardNone || s.EndsAt < now {
		return 0
	}
	return s.EndsAt - now
}

// Modifiers returns the rule set for the active hazard
func (s *HazardScheduler) Modifiers() Modifiers {
	return ModifiersFor(s.Active)
}
