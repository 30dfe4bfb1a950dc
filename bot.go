package main

import (
	"fmt"
	"math"
)

const (
	BotCloseRange     = 220.0  // ease off the throttle inside this distance
	BotYawGain        = 1.6    // proportional steering gains
	BotPitchGain      = 1.8
	BotStrafeGain     = 0.32
	BotStrafeLimit    = 0.42
	BotJinkRate       = 0.67   // rad/s of the strafe oscillation
	BotJinkDrift      = 0.7    // chance per second of shifting the jink phase
	BotLiftScale      = 340.0
	BotBoostRange     = 420.0
	BotFireYaw        = 0.13   // aim error allowed for plasma
	BotFirePitch      = 0.11
	BotFireRange      = 1400.0
	BotMissileRange   = 900.0
	BotOverchargeOdds = 0.4
	BotBurstMin       = 2.4    // seconds between missile bursts
	BotBurstMax       = 4.8
	BotPulseRange     = 260.0
	BotPulseOdds      = 0.22
	BotQuickTurnYaw   = 2.5
	BotAvoidMargin    = 80.0   // extra clearance kept around asteroids
	BotAvoidStrafe    = 0.6
	BotAvoidLift      = 0.4
)

// botName is the display name for the n-th bot created
func botName(n int) string {
	return fmt.Sprintf("BOT-%d", n)
}

// updateBots writes a fresh input for every living bot participant
func (w *World) updateBots(dt float64) {
	parts := w.Participants()
	for _, bot := range parts {
		if !bot.Bot || !bot.Alive {
			continue
		}
		bot.Input = w.think(bot, parts, dt)
	}
}

// nearestEnemy picks the closest living hostile participant
func (w *World) nearestEnemy(bot *Player, parts []*Player) (*Player, float64) {
	var target *Player
	best := math.Inf(1)
	for _, p := range parts {
		if !p.Alive || !w.hostile(bot, p) {
			continue
		}
		if d := bot.Position.DistanceTo(p.Position); d < best {
			target, best = p, d
		}
	}
	return target, best
}

// think is the bot controller for one tick
func (w *World) think(bot *Player, parts []*Player, dt float64) Input {
	in := NeutralInput()
	target, dist := w.nearestEnemy(bot, parts)
	if target == nil {
		return in
	}

	to := target.Position.Sub(bot.Position)
	desiredYaw := math.Atan2(to.X, to.Z)
	desiredPitch := math.Atan2(to.Y, math.Max(1, math.Hypot(to.X, to.Z)))
	yawDiff := NormalizeAngle(desiredYaw - bot.Yaw)
	pitchDiff := desiredPitch - bot.Pitch
	yawAbs := math.Abs(yawDiff)

	in.Thrust = 1
	if dist < BotCloseRange {
		in.Thrust = 0.66
	}
	in.Yaw = Clamp(yawDiff*BotYawGain, -1, 1)
	in.Pitch = Clamp(pitchDiff*BotPitchGain, -1, 1)

	if w.rng.Float64() < dt*BotJinkDrift {
		bot.brain.strafePhase += randRange(w.rng, -0.7, 0.7)
	}
	jinkAmp := 0.06
	if yawAbs < 0.2 {
		jinkAmp = 0.12
	}
	if yawAbs > 0.18 {
		in.Strafe = Clamp(yawDiff*BotStrafeGain, -BotStrafeLimit, BotStrafeLimit)
	} else {
		in.Strafe = math.Sin(w.RoundTimer*BotJinkRate+bot.brain.strafePhase) * jinkAmp
	}
	in.Lift = Clamp(to.Y/BotLiftScale, -1, 1)
	in.Boost = dist > BotBoostRange || yawAbs > 0.7
	in.FirePlasma = yawAbs < BotFireYaw && math.Abs(pitchDiff) < BotFirePitch && dist < BotFireRange
	lock := target.ID
	in.LockTarget = &lock

	if dist < BotMissileRange && w.RoundTimer >= bot.brain.missileBurstAt {
		in.FireMissile = true
		in.OverchargeMissile = w.rng.Float64() < BotOverchargeOdds
		bot.brain.missileBurstAt = w.RoundTimer + randRange(w.rng, BotBurstMin, BotBurstMax)
	}

	if w.missileIncoming(bot.ID) {
		if bot.Energy >= WarpEnergy {
			in.Warp = WarpBlind
			if w.rng.Float64() < 0.5 {
				in.Warp = WarpStable
			}
		}
		if bot.Energy >= GravityShiftEnergy && bot.Cooldowns.GravityShift <= 0 {
			in.GravityShift = true
		}
	}

	if dist < BotPulseRange && bot.Energy >= PulseEnergy && bot.Cooldowns.BlackHolePulse <= 0 && w.rng.Float64() < BotPulseOdds {
		in.BlackHolePulse = true
	}

	if yawAbs > BotQuickTurnYaw && bot.Cooldowns.QuickTurn <= 0 {
		in.QuickTurn = true
	}

	w.avoidAsteroids(bot, &in)
	return in
}

// missileIncoming reports whether any missile is homing on id
func (w *World) missileIncoming(id int) bool {
	for _, pr := range w.Projectiles {
		if pr.Kind == KindMissile && pr.TargetID == id {
			return true
		}
	}
	return false
}

// avoidAsteroids sidesteps and climbs away from asteroids that are too close
func (w *World) avoidAsteroids(bot *Player, in *Input) {
	for _, a := range w.Asteroids {
		if bot.Position.DistanceTo(a.Position) >= a.Radius+ShipRadius+BotAvoidMargin {
			continue
		}
		away := bot.Position.Sub(a.Position).Normalize()
		yawToAway := NormalizeAngle(math.Atan2(away.X, away.Z) - bot.Yaw)
		in.Strafe = Clamp(in.Strafe+sign(yawToAway)*BotAvoidStrafe, -1, 1)
		lift := -BotAvoidLift
		if away.Y > 0 {
			lift = BotAvoidLift
		}
		in.Lift = Clamp(in.Lift+lift, -1, 1)
	}
}
