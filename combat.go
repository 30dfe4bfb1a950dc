package main

// applyDamage lowers target health, clamped to [0, ShipMaxHP], and
// eliminates the target when it reaches zero. attackerID is noPlayer for
// environmental damage.
func (w *World) applyDamage(target *Player, amount float64, attackerID int) {
	if !target.Alive {
		return
	}
	target.Health = Clamp(target.Health-amount, 0, ShipMaxHP)
	if attackerID != noPlayer {
		target.LastHitBy = attackerID
	}
	if target.Health <= 0 {
		w.eliminate(target, attackerID)
	}
}

// eliminate marks p dead, credits a living distinct attacker and checks
// whether the round is over
func (w *World) eliminate(p *Player, attackerID int) {
	if !p.Alive {
		return
	}
	p.Alive = false
	p.Health = 0
	p.Deaths++
	w.deathCounter++
	p.DeathOrder = w.deathCounter
	p.DeathTime = w.RoundTimer
	p.Velocity = Vec3{}

	w.emit(Event{Type: EvtExplosion, Position: at(p.Position), Radius: explosionRad, Color: p.Color})

	if attackerID != noPlayer && attackerID != p.ID {
		if killer := w.Players[attackerID]; killer != nil && killer.Alive {
			killer.Kills++
			killer.Energy = Clamp(killer.Energy+KillEnergy, 0, EnergyMax)
			killer.Marked = killer.Kills >= MarkedKills
			w.emit(Event{
				Type:       EvtKill,
				KillerID:   killer.ID,
				KillerName: killer.Name,
				VictimID:   p.ID,
				VictimName: p.Name,
				Position:   at(p.Position),
			})
		}
	}

	w.checkRoundEnd()
}

// hostile reports whether a may target b under the current mode
func (w *World) hostile(a, b *Player) bool {
	if a.ID == b.ID {
		return false
	}
	return w.Mode != ModeTeamWar || a.Team != b.Team
}
