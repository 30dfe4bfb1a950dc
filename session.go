package main

import (
	"errors"
	"fmt"
	"sort"
)

var ErrLobbyFull = errors.New("lobby is full")

// Session ties one connection to the player it controls
type Session struct {
	Conn     Sender
	PlayerID int // noPlayer until the connection has joined
	Encoding Encoding
}

// Joined reports whether the connection owns a player
func (s *Session) Joined() bool {
	return s.PlayerID != noPlayer
}

// AddHuman admits a new human player. A valid mode switches the world to
// it. A round starts immediately if none is active.
func (w *World) AddHuman(name, mode string) (*Player, error) {
	if w.HumanCount() >= MaxPlayers {
		return nil, ErrLobbyFull
	}

	id := w.nextHumanID
	w.nextHumanID++
	if name == "" {
		name = fmt.Sprintf("Pilot-%d", id)
	}
	if r := []rune(name); len(r) > MaxNameLen {
		name = string(r[:MaxNameLen])
	}
	if m, ok := ParseMode(mode); ok {
		w.Mode = m
	}

	p := NewPlayer(id, name, teamColors[id%len(teamColors)], pickShipSkin(float64(id)*1.13), id%2+1, false, w.rng)
	if w.Phase == PhaseActive {
		p.Position = orbitalSpawn(w.rng, w.rng.Float64(), 1)
	}
	w.Players[id] = p
	w.touchRoster()

	if w.AutoBots {
		w.ensureBots()
	}
	if w.Phase == PhaseWaiting {
		w.StartRound()
	}
	return p, nil
}

// RemovePlayer drops a player for good. Missiles homing on it lose their
// target. With no humans left the round drops back to waiting.
func (w *World) RemovePlayer(id int) {
	if _, ok := w.Players[id]; !ok {
		return
	}
	delete(w.Players, id)
	w.touchRoster()
	for _, pr := range w.Projectiles {
		if pr.TargetID == id {
			pr.TargetID = noPlayer
		}
	}

	if w.AutoBots {
		w.ensureBots()
	}
	if w.HumanCount() == 0 {
		w.Phase = PhaseWaiting
		return
	}
	w.checkRoundEnd()
}

// ensureBots keeps MaxPlayers - humans bots while humans are connected,
// and a single idle bot otherwise
func (w *World) ensureBots() {
	want := 1
	if humans := w.HumanCount(); humans > 0 {
		want = MaxPlayers - humans
		if want < 0 {
			want = 0
		}
	}

	bots := w.bots()
	for len(bots) > want {
		last := bots[len(bots)-1]
		delete(w.Players, last.ID)
		bots = bots[:len(bots)-1]
		w.touchRoster()
	}
	for i := len(bots); i < want; i++ {
		w.addBot()
	}
}

// bots returns the bot players ordered by id
func (w *World) bots() []*Player {
	var out []*Player
	for _, p := range w.Players {
		if p.Bot {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) addBot() {
	seq := w.nextBotSeq
	w.nextBotSeq++
	id := BotIDOffset + seq
	b := NewPlayer(id, botName(seq), teamColors[(id+1)%len(teamColors)], pickShipSkin(float64(seq)+float64(id)*0.41), seq%2+1, true, w.rng)
	if w.Phase == PhaseActive {
		b.Position = orbitalSpawn(w.rng, w.rng.Float64(), 1)
	}
	w.Players[id] = b
	w.touchRoster()
}
