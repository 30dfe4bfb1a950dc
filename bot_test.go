package main

import "testing"

// botScene places a bot at the origin facing +z and one human at target
func botScene(t *testing.T, target Vec3) (*World, *Player, *Player) {
	t.Helper()
	w := newTestWorld(8)
	human := addShip(w, 2, false, target)
	bot := addShip(w, BotIDOffset+1, true, Vec3{})
	bot.Yaw, bot.Pitch = 0, 0
	w.Phase = PhaseActive
	return w, bot, human
}

func TestBotAttacksTargetAhead(t *testing.T) {
	w, bot, human := botScene(t, Vec3{Z: 500})

	in := w.think(bot, w.Participants(), TickDT)

	if in.Thrust != 1 {
		t.Errorf("expected full thrust, got %f", in.Thrust)
	}
	if !in.FirePlasma {
		t.Error("bot should fire at a target dead ahead")
	}
	if in.LockTarget == nil || *in.LockTarget != human.ID {
		t.Errorf("bot should lock the target")
	}
	if in.QuickTurn {
		t.Error("no quick turn needed for a target ahead")
	}
}

func TestBotEasesOffUpClose(t *testing.T) {
	w, bot, _ := botScene(t, Vec3{Z: 100})
	in := w.think(bot, w.Participants(), TickDT)
	if in.Thrust >= 1 {
		t.Errorf("expected reduced thrust at close range, got %f", in.Thrust)
	}
}

func TestBotTurnsAround(t *testing.T) {
	w, bot, _ := botScene(t, Vec3{Z: -500})
	in := w.think(bot, w.Participants(), TickDT)
	if !in.QuickTurn {
		t.Error("bot should quick turn toward a target behind it")
	}
	if in.FirePlasma {
		t.Error("bot should not fire at a target behind it")
	}
}

func TestBotIdleWithoutEnemy(t *testing.T) {
	w, bot, human := botScene(t, Vec3{Z: 500})
	human.Alive, human.Health = false, 0

	if in := w.think(bot, w.Participants(), TickDT); in != NeutralInput() {
		t.Errorf("expected neutral input, got %+v", in)
	}
}

func TestBotIgnoresTeammates(t *testing.T) {
	w, bot, human := botScene(t, Vec3{Z: 500})
	w.Mode = ModeTeamWar
	human.Team = bot.Team

	if in := w.think(bot, w.Participants(), TickDT); in != NeutralInput() {
		t.Errorf("bot should not engage a teammate, got %+v", in)
	}
}

func TestBotEvadesIncomingMissile(t *testing.T) {
	w, bot, human := botScene(t, Vec3{Z: 800})
	w.Projectiles = append(w.Projectiles, &Projectile{ID: 1, Kind: KindMissile, OwnerID: human.ID, TargetID: bot.ID, TTL: 4})

	in := w.think(bot, w.Participants(), TickDT)
	if in.Warp != WarpStable && in.Warp != WarpBlind {
		t.Errorf("expected a warp, got %q", in.Warp)
	}
	if !in.GravityShift {
		t.Error("expected gravity shift against an incoming missile")
	}
}

func TestBotAvoidsAsteroids(t *testing.T) {
	w, bot, _ := botScene(t, Vec3{Z: 800})
	clear := w.think(bot, w.Participants(), TickDT)

	w.Asteroids = []*Asteroid{{ID: 1, Position: Vec3{Y: -60}, Radius: 30}}
	in := w.think(bot, w.Participants(), TickDT)

	if in.Lift <= clear.Lift {
		t.Errorf("bot should climb away from the asteroid below: %f -> %f", clear.Lift, in.Lift)
	}
}

func TestUpdateBotsSkipsHumans(t *testing.T) {
	w, bot, human := botScene(t, Vec3{Z: 500})
	human.Input = Input{Thrust: -1, Warp: WarpNone}

	w.updateBots(TickDT)

	if human.Input.Thrust != -1 {
		t.Error("human input must not be overwritten")
	}
	if bot.Input.Thrust != 1 {
		t.Errorf("bot input not refreshed, thrust %f", bot.Input.Thrust)
	}
}
