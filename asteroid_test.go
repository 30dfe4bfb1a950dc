package main

import (
	"math"
	"testing"
)

func TestAsteroidStraightLine(t *testing.T) {
	a := &Asteroid{Position: Vec3{X: 1000}, Velocity: Vec3{X: 10, Y: 2, Z: -5}}
	a.Update(1.0)

	want := Vec3{X: 1010, Y: 2, Z: -5}
	if a.Position.DistanceTo(want) > 1e-9 {
		t.Errorf("expected %+v, got %+v", want, a.Position)
	}
}

func TestAsteroidReboundsOffRadialLimit(t *testing.T) {
	a := &Asteroid{Position: Vec3{X: AsteroidRadialLimit - 1}, Velocity: Vec3{X: 100}}
	a.Update(1.0)

	if planar := math.Hypot(a.Position.X, a.Position.Z); planar > AsteroidRadialLimit+1e-9 {
		t.Errorf("asteroid escaped the band: %f", planar)
	}
	if a.Velocity.X >= 0 {
		t.Errorf("expected inward velocity, got %+v", a.Velocity)
	}
	if got := a.Velocity.Len(); math.Abs(got-100*AsteroidRebound) > 1e-6 {
		t.Errorf("expected speed %f after rebound, got %f", 100*AsteroidRebound, got)
	}
}

func TestAsteroidBouncesOffCeiling(t *testing.T) {
	a := &Asteroid{Position: Vec3{X: 1000, Y: AsteroidAltitude - 1}, Velocity: Vec3{Y: 10}}
	a.Update(1.0)

	if a.Position.Y != AsteroidAltitude {
		t.Errorf("expected altitude clamped to %f, got %f", AsteroidAltitude, a.Position.Y)
	}
	if a.Velocity.Y != -10 {
		t.Errorf("expected vertical velocity flipped, got %f", a.Velocity.Y)
	}
}

func TestAsteroidFieldSeparated(t *testing.T) {
	w := newTestWorld(42)
	w.generateAsteroidField()

	if len(w.Asteroids) == 0 || len(w.Asteroids) > AsteroidCount {
		t.Fatalf("unexpected field size %d", len(w.Asteroids))
	}
	for i, a := range w.Asteroids {
		if a.Radius < AsteroidMinRadius || a.Radius > AsteroidMaxRadius {
			t.Errorf("asteroid %d radius %f out of range", a.ID, a.Radius)
		}
		if a.Position.Len() > AsteroidOuterBand {
			t.Errorf("asteroid %d placed outside the band", a.ID)
		}
		for _, b := range w.Asteroids[i+1:] {
			if a.Position.DistanceTo(b.Position) <= a.Radius+b.Radius+AsteroidSpacing {
				t.Errorf("asteroids %d and %d too close", a.ID, b.ID)
			}
		}
	}
}

func TestAsteroidHit(t *testing.T) {
	w := newTestWorld(42)
	w.generateAsteroidField()
	w.updateAsteroids(0)

	a := w.Asteroids[0]
	if !w.asteroidHit(a.Position.Add(Vec3{X: a.Radius}), 2) {
		t.Error("expected a hit at the asteroid surface")
	}
	if w.asteroidHit(Vec3{}, 2) {
		t.Error("the arena center is clear of asteroids")
	}
}

func TestAsteroidContactDamagesShip(t *testing.T) {
	w, p1, p2 := startDuel(t)
	rock := &Asteroid{ID: 1, Position: Vec3{X: 1000}, Radius: 40}
	w.Asteroids = []*Asteroid{rock}
	p1.Position = Vec3{X: 1000 + 30}

	w.resolveContacts(p1, TickDT)

	if d := p1.Position.DistanceTo(rock.Position); d < rock.Radius+ShipRadius {
		t.Errorf("ship still inside the asteroid, distance %f", d)
	}
	want := ShipMaxHP - AsteroidContactDamage*TickDT
	if math.Abs(p1.Health-want) > 1e-9 {
		t.Errorf("expected health %f, got %f", want, p1.Health)
	}
	if p1.Velocity.X <= 0 {
		t.Error("ship should be pushed away")
	}
	if p2.Kills != 0 {
		t.Error("asteroid damage credits nobody")
	}
}

func TestAsteroidRain(t *testing.T) {
	w := newTestWorld(9)
	mods := ModifiersFor(HazardAsteroidRain)

	for i := 0; i < 20*TickRate; i++ {
		w.updateRain(TickDT, mods)
		if len(w.RainAsteroids) > RainMax {
			t.Fatalf("rain exceeded %d meteors", RainMax)
		}
		for _, r := range w.RainAsteroids {
			if r.Velocity.Y >= 0 {
				t.Fatal("meteors must fall")
			}
			if r.Position.Y <= RainFloor || r.TTL <= 0 {
				t.Fatal("spent meteor not pruned")
			}
		}
	}
	if len(w.RainAsteroids) == 0 {
		t.Error("expected meteors after 20 seconds of rain")
	}

	w.RainAsteroids = w.RainAsteroids[:0]
	w.updateRain(TickDT, ModifiersFor(HazardNone))
	if len(w.RainAsteroids) != 0 {
		t.Error("no meteors without the hazard")
	}
}

func TestRainContactIsConsumed(t *testing.T) {
	w, p1, _ := startDuel(t)
	p1.Position = Vec3{X: 500, Y: 100}
	r := &RainAsteroid{ID: 1, Position: Vec3{X: 500, Y: 110}, Radius: 20, TTL: 3, Velocity: Vec3{Y: -500}}
	w.RainAsteroids = []*RainAsteroid{r}

	w.resolveContacts(p1, TickDT)

	if p1.Health != ShipMaxHP-RainContactDamage {
		t.Errorf("expected health %f, got %f", ShipMaxHP-RainContactDamage, p1.Health)
	}
	if r.TTL != 0 {
		t.Error("meteor should be consumed on contact")
	}
}
