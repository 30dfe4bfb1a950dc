package main

import (
	"log"
	"sort"
	"time"
)

// RoundPhase is the round lifecycle state
type RoundPhase string

const (
	PhaseWaiting RoundPhase = "waiting"
	PhaseActive  RoundPhase = "active"
	PhaseEnded   RoundPhase = "ended"
)

// GameMode is the rule set chosen by the last human to join
type GameMode string

const (
	ModeBattleRoyale GameMode = "battle-royale"
	ModeTeamWar      GameMode = "team-war"
	ModeRankedDuel   GameMode = "ranked-duel"
	ModeTournament   GameMode = "tournament"
)

const (
	RoundGrace      = 8.0 // seconds between roundEnd and the next roundStart
	minParticipants = 2
)

// AllModes lists every supported mode in display order
func AllModes() []GameMode {
	return []GameMode{ModeBattleRoyale, ModeTeamWar, ModeRankedDuel, ModeTournament}
}

// ParseMode returns the mode named s and whether it exists
func ParseMode(s string) (GameMode, bool) {
	for _, m := range AllModes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// StartRound resets every participant and the arena. With fewer than two
// participants the world falls back to waiting instead.
func (w *World) StartRound() {
	if w.AutoBots {
		w.ensureBots()
	}
	parts := w.Participants()
	if len(parts) < minParticipants {
		w.Phase = PhaseWaiting
		return
	}

	w.Phase = PhaseActive
	w.RoundTimer = 0
	w.BlackHoleRadius = 0
	w.deathCounter = 0
	w.Hazard.Reset(w.RoundTimer, w.rng)
	w.Projectiles = w.Projectiles[:0]
	w.RainAsteroids = w.RainAsteroids[:0]
	w.rebuildArena()

	for i, p := range parts {
		p.ResetForRound(orbitalSpawn(w.rng, float64(i), float64(len(parts))), w.rng)
	}
	for i := 0; i < CrystalsPerRound; i++ {
		w.spawnCrystal()
	}
	w.emit(Event{Type: EvtRoundStart, Round: w.Round})
	log.Printf("round %d started: %d participants, mode %s", w.Round, len(parts), w.Mode)
}

// rebuildArena regenerates the asteroid field and hazard zones and clears
// crystals
func (w *World) rebuildArena() {
	w.generateAsteroidField()
	w.NebulaZones = defaultNebulae()
	w.DistortionZones = defaultDistortions()
	w.Crystals = w.Crystals[:0]
}

// checkRoundEnd ends an active round once at most one participant, or in
// team war at most one team, is left alive
func (w *World) checkRoundEnd() {
	if w.Phase != PhaseActive {
		return
	}
	alive := w.AliveParticipants()
	if len(alive) <= 1 {
		w.EndRound()
		return
	}
	if w.Mode == ModeTeamWar {
		team := alive[0].Team
		for _, p := range alive[1:] {
			if p.Team != team {
				return
			}
		}
		w.EndRound()
	}
}

// EndRound moves an active round to ended, announces the winner if there
// is exactly one survivor and records the result
func (w *World) EndRound() {
	if w.Phase != PhaseActive {
		return
	}
	w.Phase = PhaseEnded
	w.RoundEndsAt = w.RoundTimer + RoundGrace

	ranking := w.ranking()
	winner, team := noPlayer, 0
	alive := w.AliveParticipants()
	if len(alive) == 1 {
		winner = alive[0].ID
	}
	if w.Mode == ModeTeamWar && len(alive) > 0 {
		team = alive[0].Team
	}
	w.emit(Event{Type: EvtRoundEnd, Round: w.Round, WinnerID: winner, WinnerTeam: team})
	res := w.roundResult(ranking, winner)
	res.WinnerTeam = team
	w.Results = append(w.Results, res)
	log.Printf("round %d ended: winner %d team %d", w.Round, winner, team)
}

// ranking orders participants: survivors first, then kills, health and
// finally how late they died
func (w *World) ranking() []*Player {
	ranked := append([]*Player(nil), w.Participants()...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Alive != b.Alive {
			return a.Alive
		}
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		if a.Health != b.Health {
			return a.Health > b.Health
		}
		return a.DeathTime > b.DeathTime
	})
	return ranked
}

func (w *World) roundResult(ranking []*Player, winner int) RoundResult {
	r := RoundResult{
		Round:    w.Round,
		Mode:     w.Mode,
		Duration: w.RoundTimer,
		WinnerID: winner,
		EndedAt:  time.Now().UTC(),
	}
	for _, p := range ranking {
		if p.ID == winner {
			r.WinnerName = p.Name
		}
		r.Participants = append(r.Participants, RoundParticipant{
			PlayerID: p.ID,
			Name:     p.Name,
			Bot:      p.Bot,
			Team:     p.Team,
			Kills:    p.Kills,
			Deaths:   p.Deaths,
			Alive:    p.Alive,
			Health:   p.Health,
		})
	}
	return r
}

// maybeRestartRound starts a round from waiting when enough participants
// are present, and the next round once the grace window has passed
func (w *World) maybeRestartRound() {
	switch w.Phase {
	case PhaseWaiting:
		if len(w.Participants()) >= minParticipants {
			w.StartRound()
		}
	case PhaseEnded:
		if w.RoundTimer >= w.RoundEndsAt {
			w.Round++
			w.StartRound()
		}
	}
}
