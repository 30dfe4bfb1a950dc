package main

import (
	"math"
	"math/rand"
)

const (
	AsteroidCount       = 26
	AsteroidMinRadius   = 18.0
	AsteroidMaxRadius   = 58.0
	AsteroidInnerBand   = 760.0
	AsteroidOuterBand   = ArenaRadius - 180
	AsteroidSpacing     = 210.0 // minimum gap between neighbours at placement
	AsteroidPlaceTries  = 48
	AsteroidRadialLimit = ArenaRadius - 140
	AsteroidAltitude    = 280.0
	AsteroidRebound     = 0.94 // speed kept after bouncing off the band edge

	RainMax         = 24
	RainSpawnRate   = 7.5 // expected spawns per second
	RainFloor       = -500.0
	RainMinRadius   = 16.0
	RainMaxRadius   = 34.0
	RainSpawnExtent = 2000.0
)

// Asteroid drifts inside the orbital band
type Asteroid struct {
	ID       int
	Radius   float64
	Position Vec3
	Velocity Vec3
}

// RainAsteroid is a falling meteor spawned by the asteroid-rain hazard
type RainAsteroid struct {
	ID       int
	Radius   float64
	Position Vec3
	Velocity Vec3
	TTL      float64
}

// Update moves the asteroid, rebounding off the radial limit and the
// altitude ceiling and floor
func (a *Asteroid) Update(dt float64) {
	a.Position = a.Position.Add(a.Velocity.Scale(dt))

	planar := Vec3{X: a.Position.X, Z: a.Position.Z}
	if l := planar.Len(); l > AsteroidRadialLimit {
		normal := planar.Scale(1 / math.Max(0.001, l))
		a.Position.X = normal.X * AsteroidRadialLimit
		a.Position.Z = normal.Z * AsteroidRadialLimit
		vn := a.Velocity.Dot(normal)
		a.Velocity = a.Velocity.Sub(normal.Scale(2 * vn)).Scale(AsteroidRebound)
	}

	if a.Position.Y > AsteroidAltitude || a.Position.Y < -AsteroidAltitude {
		a.Position.Y = Clamp(a.Position.Y, -AsteroidAltitude, AsteroidAltitude)
		a.Velocity.Y = -a.Velocity.Y
	}
}

// generateAsteroidField scatters a fresh, well-separated asteroid field.
// Rocks that find no free spot after AsteroidPlaceTries are skipped.
func (w *World) generateAsteroidField() {
	w.Asteroids = w.Asteroids[:0]
	for i := 0; i < AsteroidCount; i++ {
		radius := randRange(w.rng, AsteroidMinRadius, AsteroidMaxRadius)
		for attempt := 0; attempt < AsteroidPlaceTries; attempt++ {
			pos := bandPosition(w.rng)
			if !w.separated(pos, radius) {
				continue
			}
			w.nextAsteroidID++
			w.Asteroids = append(w.Asteroids, &Asteroid{
				ID:       w.nextAsteroidID,
				Radius:   radius,
				Position: pos,
				Velocity: Vec3{
					X: randRange(w.rng, -24, 24),
					Y: randRange(w.rng, -8, 8),
					Z: randRange(w.rng, -24, 24),
				},
			})
			break
		}
	}
}

func bandPosition(rng *rand.Rand) Vec3 {
	radial := randRange(rng, AsteroidInnerBand, AsteroidOuterBand)
	theta := randRange(rng, 0, 2*math.Pi)
	phi := randRange(rng, -0.48, 0.48)
	return Vec3{
		X: math.Cos(theta) * math.Cos(phi) * radial,
		Y: math.Sin(phi) * radial * 0.44,
		Z: math.Sin(theta) * math.Cos(phi) * radial,
	}
}

func (w *World) separated(pos Vec3, radius float64) bool {
	for _, other := range w.Asteroids {
		if pos.DistanceTo(other.Position) <= other.Radius+radius+AsteroidSpacing {
			return false
		}
	}
	return true
}

// updateAsteroids integrates the field and rebuilds the broad-phase grid
func (w *World) updateAsteroids(dt float64) {
	w.grid.Clear()
	for i, a := range w.Asteroids {
		a.Update(dt)
		w.grid.InsertSphere(a.Position, a.Radius, i)
	}
}

// updateRain spawns meteors while the rain hazard runs and integrates the
// ones already falling
func (w *World) updateRain(dt float64, mods Modifiers) {
	if !mods.AsteroidRain {
		return
	}
	if len(w.RainAsteroids) < RainMax && w.rng.Float64() < dt*RainSpawnRate {
		w.nextAsteroidID++
		w.RainAsteroids = append(w.RainAsteroids, &RainAsteroid{
			ID:     w.nextAsteroidID,
			Radius: randRange(w.rng, RainMinRadius, RainMaxRadius),
			Position: Vec3{
				X: randRange(w.rng, -RainSpawnExtent, RainSpawnExtent),
				Y: randRange(w.rng, 580, 980),
				Z: randRange(w.rng, -RainSpawnExtent, RainSpawnExtent),
			},
			Velocity: Vec3{
				X: randRange(w.rng, -70, 70),
				Y: randRange(w.rng, -620, -460),
				Z: randRange(w.rng, -70, 70),
			},
			TTL: randRange(w.rng, 3.6, 5.8),
		})
	}

	for _, r := range w.RainAsteroids {
		r.TTL -= dt
		r.Position = r.Position.Add(r.Velocity.Scale(dt))
	}
	w.pruneRain()
}

func (w *World) pruneRain() {
	kept := w.RainAsteroids[:0]
	for _, r := range w.RainAsteroids {
		if r.TTL > 0 && r.Position.Y > RainFloor {
			kept = append(kept, r)
		}
	}
	w.RainAsteroids = kept
}

// asteroidHit reports whether a sphere at pos touches any asteroid
func (w *World) asteroidHit(pos Vec3, radius float64) bool {
	w.queryBuf = w.grid.QueryBuf(pos, radius, w.queryBuf[:0])
	for _, i := range w.queryBuf {
		a := w.Asteroids[i]
		if pos.DistanceTo(a.Position) < a.Radius+radius {
			return true
		}
	}
	return false
}
