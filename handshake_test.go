package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAcceptKeyRFCExample(t *testing.T) {
	got := AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	if got != "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=" {
		t.Errorf("expected s3pPLMBiTxaQ9kYGzzhZRbK+xOo=, got %s", got)
	}
}

func TestIsUpgradeRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"plain", "websocket", true},
		{"mixed case", "WebSocket", true},
		{"token list", "h2c, websocket", true},
		{"other", "h2c", false},
		{"none", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.header != "" {
			r.Header.Set("Upgrade", tt.header)
		}
		if got := isUpgradeRequest(r); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestUpgradeRejectsBeforeHijack(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if _, _, err := Upgrade(httptest.NewRecorder(), r); err != ErrNotUpgrade {
		t.Errorf("expected ErrNotUpgrade, got %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Upgrade", "websocket")
	r.Header.Set("Connection", "Upgrade")
	if _, _, err := Upgrade(httptest.NewRecorder(), r); err != ErrMissingKey {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/ws", nil)
	r.Header.Set("Upgrade", "websocket")
	r.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	if _, _, err := Upgrade(httptest.NewRecorder(), r); err != ErrNotUpgrade {
		t.Errorf("expected ErrNotUpgrade for POST, got %v", err)
	}
}
