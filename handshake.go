package main

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const handshakeGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

const handshakeTimeout = 5 * time.Second

var (
	ErrNotUpgrade = errors.New("not a websocket upgrade request")
	ErrMissingKey = errors.New("missing Sec-WebSocket-Key")
)

// AcceptKey derives the Sec-WebSocket-Accept token for a client key
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key + handshakeGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// isUpgradeRequest reports whether r asks to switch to the websocket protocol
func isUpgradeRequest(r *http.Request) bool {
	return headerHasToken(r.Header, "Upgrade", "websocket")
}

func headerHasToken(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}

// Upgrade validates the request, takes over the connection and writes the
// 101 response. The returned reader may already hold bytes the client sent
// right after its request.
func Upgrade(w http.ResponseWriter, r *http.Request) (net.Conn, *bufio.Reader, error) {
	if r.Method != http.MethodGet || !isUpgradeRequest(r) {
		return nil, nil, ErrNotUpgrade
	}
	key := strings.TrimSpace(r.Header.Get("Sec-WebSocket-Key"))
	if key == "" {
		return nil, nil, ErrMissingKey
	}

	hj, ok := w.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer cannot be hijacked")
	}
	conn, brw, err := hj.Hijack()
	if err != nil {
		return nil, nil, fmt.Errorf("hijack: %w", err)
	}

	resp := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + AcceptKey(key) + "\r\n\r\n"

	conn.SetWriteDeadline(time.Now().Add(handshakeTimeout))
	if _, err := conn.Write([]byte(resp)); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("write handshake: %w", err)
	}
	conn.SetWriteDeadline(time.Time{})
	return conn, brw.Reader, nil
}

// destroyConn drops the underlying connection without writing a response
func destroyConn(w http.ResponseWriter) {
	if hj, ok := w.(http.Hijacker); ok {
		if conn, _, err := hj.Hijack(); err == nil {
			conn.Close()
			return
		}
	}
	http.Error(w, "bad request", http.StatusBadRequest)
}
