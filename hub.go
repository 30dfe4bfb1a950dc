package main

import "sync"

// Hub enforces connection limits ahead of the upgrade. It is shared by
// HTTP handlers and client goroutines.
type Hub struct {
	maxPerIP int
	maxTotal int

	mu         sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a hub allowing maxPerIP connections per address and
// maxTotal overall
func NewHub(maxPerIP, maxTotal int) *Hub {
	return &Hub{
		maxPerIP: maxPerIP,
		maxTotal: maxTotal,
		ipConns:  make(map[string]int),
	}
}

// Reserve claims a slot for ip. It returns the rejection reason, or "" when
// the slot was taken and must later be released with TrackDisconnect.
func (h *Hub) Reserve(ip string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.totalConns >= h.maxTotal {
		return "total"
	}
	if h.ipConns[ip] >= h.maxPerIP {
		return "per_ip"
	}
	h.ipConns[ip]++
	h.totalConns++
	connectionsActive.Set(float64(h.totalConns))
	return ""
}

// TrackDisconnect releases a slot claimed by Reserve
func (h *Hub) TrackDisconnect(ip string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ipConns[ip] == 0 {
		return
	}
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
	connectionsActive.Set(float64(h.totalConns))
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalConns
}
