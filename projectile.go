package main

// ProjectileKind is plasma or missile
type ProjectileKind string

const (
	KindPlasma  ProjectileKind = "plasma"
	KindMissile ProjectileKind = "missile"
)

const (
	PlasmaCooldown    = 0.09
	PlasmaEnergy      = 0.8
	PlasmaSpeed       = 1760.0
	PlasmaInherit     = 0.55 // share of ship velocity added to the bolt
	PlasmaDamage      = 8.0
	PlasmaTTL         = 1.05
	PlasmaRadius      = 4.2
	PlasmaMuzzle      = 45.0 // spawn distance ahead of the ship
	MissileCooldown   = 0.85
	MissileEnergy     = 15.0
	MissileInherit    = 0.45
	MissileRadius     = 10.0
	MissileMuzzle     = 52.0
	MissileLockRange  = 1500.0
	MissileLockCone   = 0.5 // minimum forward dot for auto-targeting
	MaxSnapshotShots  = 180
	missileConeWeight = 250.0
)

// missileProfile holds the per-variant missile numbers
type missileProfile struct {
	energy, speed, cruise, damage, ttl, turnRate float64
}

var (
	standardMissile   = missileProfile{energy: MissileEnergy, speed: 760, cruise: 700, damage: 34, ttl: 6.4, turnRate: 2.4}
	overchargeMissile = missileProfile{energy: 35, speed: 980, cruise: 940, damage: 48, ttl: 7.8, turnRate: 3.4}
)

func missileVariant(overcharged bool) missileProfile {
	if overcharged {
		return overchargeMissile
	}
	return standardMissile
}

// Projectile is a plasma bolt or a missile in flight
type Projectile struct {
	ID          int
	Kind        ProjectileKind
	OwnerID     int
	TargetID    int // noPlayer when not homing
	Overcharged bool
	Position    Vec3
	Velocity    Vec3
	Damage      float64
	TTL         float64
	Radius      float64
	TurnRate    float64 // rad/s, 0 for plasma

	dampened bool // inside a gravity shift field this tick
}

// spawnPlasma fires a straight bolt along forward
func (w *World) spawnPlasma(p *Player, forward Vec3, mods Modifiers) {
	w.nextProjectileID++
	w.Projectiles = append(w.Projectiles, &Projectile{
		ID:       w.nextProjectileID,
		Kind:     KindPlasma,
		OwnerID:  p.ID,
		Position: p.Position.Add(forward.Scale(PlasmaMuzzle)),
		Velocity: forward.Scale(PlasmaSpeed).Add(p.Velocity.Scale(PlasmaInherit)),
		Damage:   PlasmaDamage * mods.PlasmaDamageMul,
		TTL:      PlasmaTTL,
		Radius:   PlasmaRadius,
	})
}

// spawnMissile fires a homing missile at the lock target, or at the best
// enemy in the forward cone when there is no valid lock
func (w *World) spawnMissile(p *Player, forward Vec3, mods Modifiers, overcharged bool) {
	prof := missileVariant(overcharged)
	m := &Projectile{
		Kind:        KindMissile,
		OwnerID:     p.ID,
		Overcharged: overcharged,
		Position:    p.Position.Add(forward.Scale(MissileMuzzle)),
		Velocity:    forward.Scale(prof.speed).Add(p.Velocity.Scale(MissileInherit)),
		Damage:      prof.damage,
		TTL:         prof.ttl,
		Radius:      MissileRadius,
		TurnRate:    prof.turnRate,
	}
	if !mods.MissileTrackingDisabled {
		if lock := w.validTarget(p.ID, p.LockTarget); lock != nil {
			m.TargetID = lock.ID
		} else {
			m.TargetID = w.acquireTarget(p, forward)
		}
	}
	w.nextProjectileID++
	m.ID = w.nextProjectileID
	w.Projectiles = append(w.Projectiles, m)
}

// validTarget returns the living player id refers to, unless it is the owner
func (w *World) validTarget(ownerID, id int) *Player {
	if id == noPlayer || id == ownerID {
		return nil
	}
	t := w.Players[id]
	if t == nil || !t.Alive {
		return nil
	}
	return t
}

// acquireTarget scores enemies inside the forward cone, preferring close
// and centered ones
func (w *World) acquireTarget(p *Player, forward Vec3) int {
	best := noPlayer
	bestScore := 0.0
	for _, c := range w.Participants() {
		if !c.Alive || !w.hostile(p, c) {
			continue
		}
		offset := c.Position.Sub(p.Position)
		dist := offset.Len()
		if dist > MissileLockRange {
			continue
		}
		dot := forward.Dot(offset.Normalize())
		if dot < MissileLockCone {
			continue
		}
		score := dist - dot*missileConeWeight
		if best == noPlayer || score < bestScore {
			best, bestScore = c.ID, score
		}
	}
	return best
}

// shieldFor returns the first living hostile ship whose gravity shift field
// contains m, or nil
func (w *World) shieldFor(m *Projectile) *Player {
	owner := w.Players[m.OwnerID]
	for _, p := range w.Participants() {
		if !p.Alive || p.ID == m.OwnerID || p.Effects.GravityShift <= 0 {
			continue
		}
		if owner != nil && !w.hostile(owner, p) {
			continue
		}
		if m.Position.DistanceTo(p.Position) < GravityShiftRadius {
			return p
		}
	}
	return nil
}

// steer turns a missile toward its target, or away from a shielding ship,
// by at most TurnRate*dt radians and holds it at cruise speed unless a
// gravity field is slowing it
func (w *World) steer(m *Projectile, dt float64, mods Modifiers) {
	speed := m.Velocity.Len()
	current := m.Velocity.Normalize()
	desired := current
	if !mods.MissileTrackingDisabled {
		if t := w.validTarget(m.OwnerID, m.TargetID); t != nil {
			desired = t.Position.Sub(m.Position).Normalize()
		}
	}
	if shield := w.shieldFor(m); shield != nil {
		desired = m.Position.Sub(shield.Position).Normalize()
	}
	dir := steerToward(current, desired, m.TurnRate*dt)
	if !m.dampened && speed < missileVariant(m.Overcharged).cruise {
		speed = missileVariant(m.Overcharged).cruise
	}
	m.Velocity = dir.Scale(speed)
}

// updateProjectiles moves every projectile and resolves its collisions
func (w *World) updateProjectiles(dt float64, mods Modifiers) {
	for _, pr := range w.Projectiles {
		pr.TTL -= dt
		if pr.TTL <= 0 {
			continue
		}
		if pr.Kind == KindMissile {
			w.steer(pr, dt, mods)
		}
		for _, z := range w.DistortionZones {
			pr.Velocity = pr.Velocity.Add(z.Distort(pr.Position, dt))
		}
		pr.Position = pr.Position.Add(pr.Velocity.Scale(dt))

		if pr.Position.Len() < w.BlackHoleRadius || w.asteroidHit(pr.Position, pr.Radius) {
			pr.TTL = 0
			continue
		}
		w.resolveHit(pr)
	}

	kept := w.Projectiles[:0]
	for _, pr := range w.Projectiles {
		if pr.TTL > 0 {
			kept = append(kept, pr)
		}
	}
	for i := len(kept); i < len(w.Projectiles); i++ {
		w.Projectiles[i] = nil
	}
	w.Projectiles = kept
}

// resolveHit damages the first living non-owner ship the projectile touches
func (w *World) resolveHit(pr *Projectile) {
	for _, p := range w.Participants() {
		if !p.Alive || p.ID == pr.OwnerID {
			continue
		}
		if !CheckCollision(pr.Position, pr.Radius, p.Position, ShipRadius) {
			continue
		}
		w.emit(Event{
			Type:           EvtHit,
			Position:       at(pr.Position),
			TargetID:       p.ID,
			AttackerID:     pr.OwnerID,
			Damage:         pr.Damage,
			ProjectileType: pr.Kind,
		})
		w.applyDamage(p, pr.Damage, pr.OwnerID)
		pr.TTL = 0
		return
	}
}
