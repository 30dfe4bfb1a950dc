package main

import "math"

// Ability names as reported in ability events
const (
	AbilityGravityShift   = "gravityShift"
	AbilityBlackHolePulse = "blackHolePulse"
	AbilityQuickTurn      = "quickTurn"
	AbilityRefill         = "emergencyRefill"
)

const (
	WarpCooldown   = 3.6
	WarpEnergy     = 25.0
	WarpStableJump = 300.0
	WarpBlindJump  = 260.0

	GravityShiftCooldown = 9.5
	GravityShiftEnergy   = 40.0
	GravityShiftDuration = 4.5
	GravityShiftRadius   = 260.0
	GravityShiftDrag     = 1.2 // fraction of speed shed per second inside the field

	PulseCooldown      = 13.0
	PulseEnergy        = 35.0
	PulseDuration      = 3.4
	PulsePlayerRadius  = 340.0
	PulsePlayerPull    = 210.0
	PulseMissileRadius = 390.0
	PulseMissilePull   = 340.0
	PulseDamageRadius  = 120.0
	PulseDamage        = 7.0 // per second
	PulseCoreRadius    = 80.0

	QuickTurnCooldown = 5.5
	RefillCooldown    = 22.0
	RefillEnergy      = 65.0
)

// tryQuickTurn flips the ship's heading when requested and ready
func (w *World) tryQuickTurn(p *Player) {
	if !p.Input.QuickTurn || p.Cooldowns.QuickTurn > 0 {
		return
	}
	p.Yaw = NormalizeAngle(p.Yaw + math.Pi)
	p.Cooldowns.QuickTurn = QuickTurnCooldown
	w.emit(Event{Type: EvtAbility, Ability: AbilityQuickTurn, PlayerID: p.ID, Position: at(p.Position)})
}

// useAbilities activates every requested ability that is off cooldown and
// affordable, then handles weapons
func (w *World) useAbilities(p *Player, forward Vec3, mods Modifiers) {
	w.tryWarp(p, forward)

	if p.Input.GravityShift && p.Cooldowns.GravityShift <= 0 && p.Energy >= GravityShiftEnergy {
		p.Energy -= GravityShiftEnergy
		p.Cooldowns.GravityShift = GravityShiftCooldown
		p.Effects.GravityShift = GravityShiftDuration
		w.emit(Event{Type: EvtAbility, Ability: AbilityGravityShift, PlayerID: p.ID, Position: at(p.Position)})
	}

	if p.Input.BlackHolePulse && p.Cooldowns.BlackHolePulse <= 0 && p.Energy >= PulseEnergy {
		p.Energy -= PulseEnergy
		p.Cooldowns.BlackHolePulse = PulseCooldown
		p.Effects.BlackHolePulse = PulseDuration
		w.emit(Event{Type: EvtAbility, Ability: AbilityBlackHolePulse, PlayerID: p.ID, Position: at(p.Position)})
	}

	if p.Input.EmergencyRefill && p.Cooldowns.Refill <= 0 {
		p.Energy = Clamp(p.Energy+RefillEnergy, 0, EnergyMax)
		p.Cooldowns.Refill = RefillCooldown
		w.emit(Event{Type: EvtAbility, Ability: AbilityRefill, PlayerID: p.ID, Position: at(p.Position)})
	}

	if p.Input.LockTarget != nil {
		p.LockTarget = *p.Input.LockTarget
	}

	if p.Input.FirePlasma && p.Cooldowns.Plasma <= 0 && p.Energy >= PlasmaEnergy {
		p.Energy -= PlasmaEnergy
		p.Cooldowns.Plasma = PlasmaCooldown
		w.spawnPlasma(p, forward, mods)
	}

	prof := missileVariant(p.Input.OverchargeMissile)
	if p.Input.FireMissile && p.Cooldowns.Missile <= 0 && p.Energy >= prof.energy {
		p.Energy -= prof.energy
		p.Cooldowns.Missile = MissileCooldown
		w.spawnMissile(p, forward, mods, p.Input.OverchargeMissile)
	}

	p.Marked = p.Kills >= MarkedKills
}

// tryWarp jumps the ship and breaks every missile lock on it
func (w *World) tryWarp(p *Player, forward Vec3) {
	if p.Input.Warp == WarpNone || p.Input.Warp == "" || p.Cooldowns.Warp > 0 || p.Energy < WarpEnergy {
		return
	}
	p.Energy -= WarpEnergy
	p.Cooldowns.Warp = WarpCooldown
	from := p.Position

	if p.Input.Warp == WarpStable {
		p.Position = p.Position.Add(forward.Scale(WarpStableJump))
	} else {
		dir := Vec3{
			X: randRange(w.rng, -1, 1),
			Y: randRange(w.rng, -0.7, 0.7),
			Z: randRange(w.rng, -1, 1),
		}.Normalize()
		p.Position = p.Position.Add(dir.Scale(WarpBlindJump))
	}
	w.emit(Event{Type: EvtWarp, PlayerID: p.ID, From: at(from), To: at(p.Position)})

	for _, pr := range w.Projectiles {
		if pr.Kind == KindMissile && pr.TargetID == p.ID {
			pr.TargetID = noPlayer
		}
	}
}

// applyAreaAbilities runs gravity shift fields and black-hole pulses for
// every living participant with the effect active
func (w *World) applyAreaAbilities(dt float64) {
	for _, pr := range w.Projectiles {
		pr.dampened = false
	}
	for _, src := range w.Participants() {
		if !src.Alive {
			continue
		}
		if src.Effects.GravityShift > 0 {
			w.applyGravityShift(src, dt)
		}
		if src.Effects.BlackHolePulse > 0 {
			w.applyPulse(src, dt)
		}
	}
}

// applyGravityShift slows hostile projectiles inside the defender's field.
// Missiles are also turned away from the defender in steer.
func (w *World) applyGravityShift(src *Player, dt float64) {
	slow := math.Max(0, 1-GravityShiftDrag*dt)
	for _, pr := range w.Projectiles {
		if pr.OwnerID == src.ID || pr.TTL <= 0 {
			continue
		}
		if owner := w.Players[pr.OwnerID]; owner != nil && !w.hostile(owner, src) {
			continue
		}
		if pr.Position.DistanceTo(src.Position) >= GravityShiftRadius {
			continue
		}
		pr.Velocity = pr.Velocity.Scale(slow)
		pr.dampened = true
	}
}

// applyPulse drags nearby enemies and foreign missiles toward src, burning
// ships inside the damage radius and swallowing missiles at the core
func (w *World) applyPulse(src *Player, dt float64) {
	for _, t := range w.Participants() {
		if !t.Alive || !w.hostile(src, t) {
			continue
		}
		offset := src.Position.Sub(t.Position)
		dist := offset.Len()
		if dist <= 0.001 || dist > PulsePlayerRadius {
			continue
		}
		strength := (1 - dist/PulsePlayerRadius) * PulsePlayerPull
		t.Velocity = t.Velocity.Add(offset.Scale(strength * dt / dist))
		if dist < PulseDamageRadius {
			w.applyDamage(t, PulseDamage*dt, src.ID)
		}
	}

	for _, pr := range w.Projectiles {
		if pr.Kind != KindMissile || pr.OwnerID == src.ID {
			continue
		}
		if owner := w.Players[pr.OwnerID]; owner != nil && !w.hostile(owner, src) {
			continue
		}
		offset := src.Position.Sub(pr.Position)
		dist := offset.Len()
		if dist <= 0.001 || dist > PulseMissileRadius {
			continue
		}
		strength := (1 - dist/PulseMissileRadius) * PulseMissilePull
		pr.Velocity = pr.Velocity.Add(offset.Scale(strength * dt / dist))
		if dist < PulseCoreRadius {
			pr.TTL = 0
		}
	}
}
