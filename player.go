package main

import (
	"math"
	"math/rand"
)

const (
	MaxPlayers   = 6
	ArenaRadius  = 2300.0
	ShipRadius   = 28.0
	ShipMaxHP    = 100.0
	EnergyStart  = 100.0
	EnergyMax    = 140.0
	EnergyRegen  = 8.0 // per second
	ShipSkins    = 6
	MaxNameLen   = 18
	KillEnergy   = 28.0 // refund for a confirmed kill
	MarkedKills  = 2    // kill streak that marks a ship
	BotIDOffset  = 1000
	noPlayer     = 0
	explosionRad = 60.0
)

// Ship handling
const (
	ShipAccel         = 920.0
	ShipDrag          = 0.989 // velocity multiplier per tick
	ShipMaxSpeed      = 760.0
	ShipTurnSpeed     = 3.4 // rad/s at full stick
	ShipRollSpeed     = 4.9
	ShipPitchLimit    = 1.1
	BoostMul          = 2.1
	BoostDrain        = 15.0 // energy per second
	HeavyDrag         = 0.981
	HeavyMaxSpeed     = 520.0
	HeavyTurnSpeed    = 2.2
	HeavyRollSpeed    = 3.2
	HeavyBoostPenalty = 0.78

	OutOfBoundsDamage  = 10.0 // per second
	OutOfBoundsPush    = 190.0
	OutOfBoundsHardCap = 180.0 // beyond the radius, position is clamped
	OutOfBoundsReset   = 110.0

	AsteroidContactDamage = 26.0 // per second
	AsteroidContactPush   = 170.0
	RainContactDamage     = 40.0
)

var teamColors = []string{"#49d9ff", "#ff8452", "#7dff84", "#ff5ca8", "#9e8bff", "#ffd26f"}

// Cooldowns are per-ability countdowns in seconds
type Cooldowns struct {
	Plasma         float64
	Missile        float64
	Warp           float64
	GravityShift   float64
	BlackHolePulse float64
	QuickTurn      float64
	Refill         float64
}

// Tick counts every cooldown down by dt, stopping at zero
func (c *Cooldowns) Tick(dt float64) {
	for _, cd := range []*float64{&c.Plasma, &c.Missile, &c.Warp, &c.GravityShift, &c.BlackHolePulse, &c.QuickTurn, &c.Refill} {
		*cd = math.Max(0, *cd-dt)
	}
}

// Effects are the remaining seconds of timed buffs
type Effects struct {
	GravityShift   float64
	BlackHolePulse float64
}

func (e *Effects) Tick(dt float64) {
	e.GravityShift = math.Max(0, e.GravityShift-dt)
	e.BlackHolePulse = math.Max(0, e.BlackHolePulse-dt)
}

// botBrain is the per-bot controller memory
type botBrain struct {
	strafePhase    float64
	missileBurstAt float64
}

// Player is a ship, human or bot
type Player struct {
	ID    int
	Name  string
	Color string
	Skin  int
	Bot   bool
	Team  int

	Alive      bool
	Health     float64
	Energy     float64
	Kills      int
	Deaths     int
	Marked     bool
	DeathOrder int
	DeathTime  float64

	Position Vec3
	Velocity Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64

	Cooldowns Cooldowns
	Effects   Effects

	LockTarget int // noPlayer when unset
	Input      Input
	LastHitBy  int

	brain botBrain
}

// NewPlayer creates a ship parked at the origin with full vitals
func NewPlayer(id int, name, color string, skin, team int, bot bool, rng *rand.Rand) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Color:  color,
		Skin:   skin,
		Bot:    bot,
		Team:   team,
		Alive:  true,
		Health: ShipMaxHP,
		Energy: EnergyStart,
		Input:  NeutralInput(),
		Yaw:    randRange(rng, -math.Pi, math.Pi),
		Pitch:  randRange(rng, -0.22, 0.22),
		brain: botBrain{
			strafePhase:    randRange(rng, 0, 2*math.Pi),
			missileBurstAt: randRange(rng, 0, 8),
		},
	}
}

// ResetForRound restores vitals, cooldowns and effects and places the ship
func (p *Player) ResetForRound(spawn Vec3, rng *rand.Rand) {
	p.Alive = true
	p.Health = ShipMaxHP
	p.Energy = EnergyStart
	p.Marked = false
	p.DeathOrder = 0
	p.DeathTime = 0
	p.LastHitBy = noPlayer
	p.Input = NeutralInput()
	p.Cooldowns = Cooldowns{}
	p.Effects = Effects{}
	p.LockTarget = noPlayer
	p.Position = spawn
	p.Velocity = Vec3{}
	p.Yaw = randRange(rng, -math.Pi, math.Pi)
	p.Pitch = randRange(rng, -0.18, 0.18)
	p.Roll = 0
}

// Forward is the ship's nose direction
func (p *Player) Forward() Vec3 { return forwardVector(p.Yaw, p.Pitch) }

// pickShipSkin maps a seed to a skin index
func pickShipSkin(seed float64) int {
	return int(math.Abs(math.Floor(seed))) % ShipSkins
}

// orbitalSpawn places index of total around the arena center on a ring
func orbitalSpawn(rng *rand.Rand, index, total float64) Vec3 {
	angle := index/math.Max(1, total)*2*math.Pi + randRange(rng, -0.22, 0.22)
	radius := randRange(rng, 1000, 1700)
	return Vec3{
		X: math.Cos(angle) * radius,
		Y: randRange(rng, -240, 260),
		Z: math.Sin(angle) * radius,
	}
}

// updateShip applies one tick of input to a living participant: regen,
// cooldowns, steering, thrust and bounds. Contact and abilities follow in
// the caller.
func (w *World) updateShip(p *Player, dt float64, mods Modifiers) {
	p.Energy = Clamp(p.Energy+EnergyRegen*dt, 0, EnergyMax)
	p.Cooldowns.Tick(dt)
	p.Effects.Tick(dt)

	turnSpeed, rollSpeed := ShipTurnSpeed, ShipRollSpeed
	if mods.HeavyShips {
		turnSpeed, rollSpeed = HeavyTurnSpeed, HeavyRollSpeed
	}
	p.Yaw = NormalizeAngle(p.Yaw + p.Input.Yaw*turnSpeed*dt)
	p.Pitch = Clamp(p.Pitch+p.Input.Pitch*turnSpeed*dt, -ShipPitchLimit, ShipPitchLimit)
	p.Roll = NormalizeAngle(p.Roll + p.Input.Roll*rollSpeed*dt)

	w.tryQuickTurn(p)

	forward := p.Forward()
	right := rightVector(p.Yaw)
	accel := forward.Scale(p.Input.Thrust).
		Add(right.Scale(p.Input.Strafe)).
		Add(upVector.Scale(p.Input.Lift)).
		Normalize()

	boost := 1.0
	if p.Input.Boost && p.Energy > 0 {
		boost = BoostMul
		p.Energy = Clamp(p.Energy-BoostDrain*dt, 0, EnergyMax)
	}
	drag, maxSpeed := ShipDrag, ShipMaxSpeed
	if mods.HeavyShips {
		boost *= HeavyBoostPenalty
		drag, maxSpeed = HeavyDrag, HeavyMaxSpeed
	}

	p.Velocity = p.Velocity.Add(accel.Scale(ShipAccel * boost * dt)).Scale(drag)
	if limit := maxSpeed * boost; p.Velocity.Len() > limit {
		p.Velocity = p.Velocity.Normalize().Scale(limit)
	}
	p.Position = p.Position.Add(p.Velocity.Scale(dt))

	w.confineToArena(p, dt)
}

// confineToArena damages and pushes back ships outside the arena radius
func (w *World) confineToArena(p *Player, dt float64) {
	dist := p.Position.Len()
	if dist <= ArenaRadius {
		return
	}
	w.applyDamage(p, OutOfBoundsDamage*dt, noPlayer)
	inward := p.Position.Scale(-1).Normalize()
	p.Velocity = p.Velocity.Add(inward.Scale(OutOfBoundsPush * dt))
	if dist > ArenaRadius+OutOfBoundsHardCap {
		p.Position = p.Position.Normalize().Scale(ArenaRadius + OutOfBoundsReset)
		p.Velocity = p.Velocity.Add(inward.Scale(260)).Scale(0.7)
	}
}

// resolveContacts handles asteroid, meteor and crystal contact for one ship
func (w *World) resolveContacts(p *Player, dt float64) {
	for _, a := range w.Asteroids {
		hitDist := a.Radius + ShipRadius
		if p.Position.DistanceTo(a.Position) < hitDist {
			push := p.Position.Sub(a.Position).Normalize()
			p.Position = depenetrate(a.Position, push, hitDist)
			p.Velocity = p.Velocity.Add(push.Scale(AsteroidContactPush))
			w.applyDamage(p, AsteroidContactDamage*dt, noPlayer)
		}
	}

	for _, r := range w.RainAsteroids {
		if r.TTL > 0 && p.Position.DistanceTo(r.Position) < r.Radius+ShipRadius {
			w.applyDamage(p, RainContactDamage, noPlayer)
			r.TTL = 0
		}
	}

	w.collectCrystals(p)
}
