package main

import (
	"bytes"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 30 // simulation ticks per second
	TickDT         = 1.0 / TickRate
	TickDuration   = time.Second / TickRate
	HeartbeatEvery = 45 // ticks between heartbeats
	inboxSize      = 4096
)

// Sender is the outbound half of a connection as seen by the game loop.
// Implementations must not block.
type Sender interface {
	SendJSON(msg any)
	SendMsgpack(msg any)
}

type commandKind int

const (
	cmdConnect commandKind = iota
	cmdMessage
	cmdLeave
)

// command is one I/O event queued for the next tick
type command struct {
	kind commandKind
	conn Sender
	msg  ClientMessage
}

// Status is a read-only summary published after every tick
type Status struct {
	Round       int        `json:"round"`
	Phase       RoundPhase `json:"phase"`
	Mode        GameMode   `json:"mode"`
	Humans      int        `json:"humans"`
	Bots        int        `json:"bots"`
	Connections int        `json:"connections"`
}

// Game drives a World at a fixed rate. Connections talk to it only through
// its inbox; the world is touched by the tick goroutine alone.
type Game struct {
	world    *World
	inbox    chan command
	stop     chan struct{}
	stopOnce sync.Once
	recorder RoundRecorder

	sessions map[Sender]*Session
	order    []Sender // connect order, for stable send order
	tick     uint64

	status atomic.Pointer[Status]
}

// NewGame wraps world. recorder may be nil.
func NewGame(world *World, recorder RoundRecorder) *Game {
	g := &Game{
		world:    world,
		inbox:    make(chan command, inboxSize),
		stop:     make(chan struct{}),
		recorder: recorder,
		sessions: make(map[Sender]*Session),
	}
	g.publishStatus()
	return g
}

// Connect registers a new connection. It receives snapshots only after it
// has joined, and heartbeats right away.
func (g *Game) Connect(conn Sender) {
	g.enqueue(command{kind: cmdConnect, conn: conn})
}

// Deliver queues a decoded client message for the next tick
func (g *Game) Deliver(conn Sender, msg ClientMessage) {
	g.enqueue(command{kind: cmdMessage, conn: conn, msg: msg})
}

// Leave queues the disconnect of conn
func (g *Game) Leave(conn Sender) {
	g.enqueue(command{kind: cmdLeave, conn: conn})
}

func (g *Game) enqueue(c command) {
	select {
	case g.inbox <- c:
	case <-g.stop:
	}
}

// Run ticks until Stop is called
func (g *Game) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.Step()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the loop. Pending commands are discarded.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Status returns the summary published by the last tick. Safe from any
// goroutine.
func (g *Game) Status() Status {
	return *g.status.Load()
}

// Step runs one tick: apply queued I/O, advance the world, then broadcast
func (g *Game) Step() {
	start := time.Now()

	g.drainInbox()
	g.world.Step(TickDT)
	g.tick++
	g.broadcast()
	g.world.ClearEvents()
	g.recordResults()
	g.publishStatus()

	tickDuration.Observe(time.Since(start).Seconds())
}

func (g *Game) drainInbox() {
	for {
		select {
		case c := <-g.inbox:
			g.handle(c)
		default:
			return
		}
	}
}

func (g *Game) handle(c command) {
	switch c.kind {
	case cmdConnect:
		if _, ok := g.sessions[c.conn]; !ok {
			g.sessions[c.conn] = &Session{Conn: c.conn, Encoding: EncodingJSON}
			g.order = append(g.order, c.conn)
		}
	case cmdLeave:
		g.disconnect(c.conn)
	case cmdMessage:
		s := g.sessions[c.conn]
		if s == nil {
			return
		}
		switch m := c.msg.(type) {
		case JoinRequest:
			g.join(s, m)
		case InputRequest:
			if p := g.world.Players[s.PlayerID]; s.Joined() && p != nil {
				p.Input = m.Input
			}
		}
	}
}

func (g *Game) join(s *Session, req JoinRequest) {
	if s.Joined() {
		return
	}
	p, err := g.world.AddHuman(req.Name, req.Mode)
	if err != nil {
		s.Conn.SendJSON(ErrorMsg{Type: MsgError, Code: ErrCodeLobbyFull, Message: "Lobby is full (6/6)."})
		return
	}
	s.PlayerID = p.ID
	s.Encoding = req.Encoding
	s.Conn.SendJSON(JoinedMsg{Type: MsgJoined, ID: p.ID, MaxPlayers: MaxPlayers, Mode: g.world.Mode})
	log.Printf("player %d (%s) joined, %d humans", p.ID, p.Name, g.world.HumanCount())
}

func (g *Game) disconnect(conn Sender) {
	s, ok := g.sessions[conn]
	if !ok {
		return
	}
	delete(g.sessions, conn)
	for i, c := range g.order {
		if c == conn {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if s.Joined() {
		g.world.RemovePlayer(s.PlayerID)
		log.Printf("player %d left, %d humans", s.PlayerID, g.world.HumanCount())
	}
}

// broadcast sends every joined connection its snapshot and, on heartbeat
// ticks, every connection the heartbeat
func (g *Game) broadcast() {
	var base SnapshotMsg
	built := false
	heartbeat := g.tick%HeartbeatEvery == 0

	for _, conn := range g.order {
		s := g.sessions[conn]
		if s.Joined() {
			if !built {
				base = g.world.Snapshot(g.tick)
				built = true
			}
			send(s, g.world.SnapshotFor(base, s.PlayerID))
		}
		if heartbeat {
			send(s, g.world.Heartbeat())
		}
	}
}

// send encodes msg the way the session asked for
func send(s *Session, msg any) {
	if s.Encoding == EncodingMsgpack {
		s.Conn.SendMsgpack(msg)
		return
	}
	s.Conn.SendJSON(msg)
}

func (g *Game) recordResults() {
	for _, r := range g.world.TakeResults() {
		outcome := "draw"
		if r.WinnerID != noPlayer || r.WinnerTeam != 0 {
			outcome = "winner"
		}
		roundsTotal.WithLabelValues(outcome).Inc()
		if g.recorder != nil {
			g.recorder.Track(r)
		}
	}
}

func (g *Game) publishStatus() {
	humans := g.world.HumanCount()
	g.status.Store(&Status{
		Round:       g.world.Round,
		Phase:       g.world.Phase,
		Mode:        g.world.Mode,
		Humans:      humans,
		Bots:        g.world.BotCount(),
		Connections: len(g.sessions),
	})

	parts := g.world.Participants()
	bots := 0
	for _, p := range parts {
		if p.Bot {
			bots++
		}
	}
	participantsGauge.WithLabelValues("human").Set(float64(len(parts) - bots))
	participantsGauge.WithLabelValues("bot").Set(float64(bots))
}

// MarshalMsgpack encodes msg as msgpack using the JSON field names
func MarshalMsgpack(msg any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
