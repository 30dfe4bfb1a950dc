package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	writeWait       = 10 * time.Second
	readChunkSize   = 4096
	maxFramePayload = 64 << 10
)

// Client is one upgraded connection. ReadPump feeds decoded messages to the
// game; WritePump drains the outbound queue. Sends never block the tick.
type Client struct {
	game       *Game
	hub        *Hub
	conn       net.Conn
	reader     *bufio.Reader
	remoteAddr string
	limiter    *rate.Limiter

	mu     sync.Mutex
	queue  [][]byte // encoded frames, unbounded
	closed bool
	wake   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. reader may hold bytes already
// read past the handshake.
func NewClient(game *Game, hub *Hub, conn net.Conn, reader *bufio.Reader, remoteAddr string, limit rate.Limit, burst int) *Client {
	if reader == nil {
		reader = bufio.NewReaderSize(conn, readChunkSize)
	}
	return &Client{
		game:       game,
		hub:        hub,
		conn:       conn,
		reader:     reader,
		remoteAddr: remoteAddr,
		limiter:    rate.NewLimiter(limit, burst),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Start greets the client, registers it with the game and runs both pumps
func (c *Client) Start() {
	c.SendJSON(NewHelloMsg())
	c.game.Connect(c)
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump decodes inbound frames until the connection fails or closes
func (c *Client) ReadPump() {
	defer c.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("client %s: recovered: %v", c.remoteAddr, r)
		}
	}()

	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.reader.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			frames, rest, derr := DecodeFramesLimit(buf, maxFramePayload)
			if derr != nil {
				if errors.Is(derr, ErrFrameTooLarge) {
					framesRejected.WithLabelValues(RejectTooLarge).Inc()
				}
				log.Printf("client %s: %v", c.remoteAddr, derr)
				return
			}
			for _, f := range frames {
				if !c.handleFrame(f) {
					return
				}
			}
			buf = buf[:copy(buf, rest)]
		}
		if err != nil {
			return
		}
	}
}

// handleFrame reacts to one frame and reports whether to keep reading
func (c *Client) handleFrame(f Frame) bool {
	if !f.Masked {
		framesRejected.WithLabelValues(RejectUnmasked).Inc()
		log.Printf("client %s: %v", c.remoteAddr, ErrUnmaskedFrame)
		return false
	}

	switch f.Opcode {
	case OpClose:
		return false
	case OpPing:
		c.enqueue(EncodeFrame(OpPong, f.Payload))
	case OpText:
		if !c.limiter.Allow() {
			framesRejected.WithLabelValues(RejectRateLimited).Inc()
			return true
		}
		msg, err := DecodeClientMessage(f.Payload)
		if err != nil {
			framesRejected.WithLabelValues(RejectBadJSON).Inc()
			return true
		}
		c.game.Deliver(c, msg)
	}
	return true
}

// WritePump writes queued frames in order until the client closes
func (c *Client) WritePump() {
	defer c.Close()

	for {
		select {
		case <-c.wake:
		case <-c.done:
			return
		}

		c.mu.Lock()
		pending := c.queue
		c.queue = nil
		c.mu.Unlock()

		for _, frame := range pending {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if _, err := c.conn.Write(frame); err != nil {
				return
			}
		}
	}
}

// SendJSON queues msg as a text frame
func (c *Client) SendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	countSnapshot(msg, len(data))
	c.enqueue(EncodeFrame(OpText, data))
}

// SendMsgpack queues msg as a binary frame
func (c *Client) SendMsgpack(msg any) {
	data, err := MarshalMsgpack(msg)
	if err != nil {
		log.Printf("msgpack error: %v", err)
		return
	}
	countSnapshot(msg, len(data))
	c.enqueue(EncodeFrame(OpBinary, data))
}

func countSnapshot(msg any, n int) {
	if _, ok := msg.(SnapshotMsg); ok {
		snapshotBytes.Add(float64(n))
	}
}

func (c *Client) enqueue(frame []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, frame)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Close tears the connection down once and tells the game the player left
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.queue = nil
		c.mu.Unlock()

		close(c.done)
		c.conn.Close()
		c.game.Leave(c)
		if c.hub != nil {
			c.hub.TrackDisconnect(c.remoteAddr)
		}
	})
}
