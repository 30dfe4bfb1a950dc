package main

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Inbound message types
const (
	MsgJoin  = "join"
	MsgInput = "input"
)

// Outbound message types
const (
	MsgHello     = "hello"
	MsgJoined    = "joined"
	MsgError     = "error"
	MsgSnapshot  = "snapshot"
	MsgHeartbeat = "heartbeat"
)

const ErrCodeLobbyFull = "LOBBY_FULL"

// Encoding selects how per-tick messages are serialized for one connection
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

var (
	ErrNotObject      = errors.New("message is not an object")
	ErrUnknownMessage = errors.New("unknown message type")
)

// ClientMessage is the closed set of messages a client may send
type ClientMessage interface {
	clientMessage()
}

// JoinRequest asks for a player slot
type JoinRequest struct {
	Name     string
	Mode     string
	Encoding Encoding
}

// InputRequest carries one already-sanitized control update
type InputRequest struct {
	Input Input
}

func (JoinRequest) clientMessage()  {}
func (InputRequest) clientMessage() {}

// DecodeClientMessage parses one text frame payload. Any syntactically valid
// join or input object decodes; field values are coerced, never rejected.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	typ, _ := obj["type"].(string)
	switch typ {
	case MsgJoin:
		req := JoinRequest{
			Name:     looseString(obj["name"]),
			Mode:     looseString(obj["mode"]),
			Encoding: EncodingJSON,
		}
		if enc, _ := obj["encoding"].(string); Encoding(enc) == EncodingMsgpack {
			req.Encoding = EncodingMsgpack
		}
		return req, nil
	case MsgInput:
		return InputRequest{Input: SanitizeInput(obj["input"])}, nil
	}
	return nil, ErrUnknownMessage
}

// looseString renders truthy scalars as text and everything falsy as ""
func looseString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
	}
	return ""
}

// HelloMsg is sent as soon as a connection is upgraded
type HelloMsg struct {
	Type         string     `json:"type"`
	Modes        []GameMode `json:"modes"`
	MaxPlayers   int        `json:"maxPlayers"`
	TickRate     int        `json:"tickRate"`
	Capabilities []Encoding `json:"capabilities"`
}

// NewHelloMsg describes what this server accepts
func NewHelloMsg() HelloMsg {
	return HelloMsg{
		Type:         MsgHello,
		Modes:        AllModes(),
		MaxPlayers:   MaxPlayers,
		TickRate:     TickRate,
		Capabilities: []Encoding{EncodingJSON, EncodingMsgpack},
	}
}

// JoinedMsg confirms a join
type JoinedMsg struct {
	Type       string   `json:"type"`
	ID         int      `json:"id"`
	MaxPlayers int      `json:"maxPlayers"`
	Mode       GameMode `json:"mode"`
}

// ErrorMsg reports a refused request. The connection stays open.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeartbeatMsg is the low-frequency population summary
type HeartbeatMsg struct {
	Type       string     `json:"type"`
	Players    int        `json:"players"`
	Humans     int        `json:"humans"`
	Mode       GameMode   `json:"mode"`
	RoundPhase RoundPhase `json:"roundPhase"`
}
