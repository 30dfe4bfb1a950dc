package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	inviteSizeMin     = 128
	inviteSizeMax     = 512
	inviteSizeDefault = 256
)

// RoundHistory serves finished rounds to the JSON API
type RoundHistory interface {
	Recent(ctx context.Context, limit int) ([]RoundResult, error)
}

// RouterConfig holds everything NewRouter wires together
type RouterConfig struct {
	Game    *Game
	Hub     *Hub
	Rounds  RoundHistory // optional
	Config  Config
	Logging bool
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRouter builds the HTTP surface. It starts no goroutines.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(rejectStrayUpgrades)

	// the upgrade hijacks the connection, so it stays outside the logger
	r.HandleFunc("/ws", serveWS(cfg))

	r.Group(func(r chi.Router) {
		if cfg.Logging {
			r.Use(middleware.Logger)
		}

		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.Config.CORSOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"*"},
			}))
			r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			})
			r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, cfg.Game.Status())
			})
			r.Get("/api/rounds", handleRounds(cfg.Rounds))
		})

		r.Handle("/metrics", promhttp.Handler())
		r.Get("/invite.png", handleInvite(cfg.Config.PublicURL))
		r.Get("/*", serveStatic(cfg.Config.PublicDir))
	})
	return r
}

// rejectStrayUpgrades destroys upgrade requests aimed anywhere but /ws
func rejectStrayUpgrades(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" && isUpgradeRequest(r) {
			destroyConn(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func serveWS(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isUpgradeRequest(r) {
			http.Error(w, "upgrade required", http.StatusUpgradeRequired)
			return
		}
		ip := extractIP(r)
		if reason := cfg.Hub.Reserve(ip); reason != "" {
			connectionsRejected.WithLabelValues(reason).Inc()
			log.Printf("connection from %s rejected: %s limit", ip, reason)
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, reader, err := Upgrade(w, r)
		if err != nil {
			cfg.Hub.TrackDisconnect(ip)
			if errors.Is(err, ErrMissingKey) || errors.Is(err, ErrNotUpgrade) {
				destroyConn(w)
				return
			}
			log.Printf("upgrade error: %v", err)
			return
		}

		client := NewClient(cfg.Game, cfg.Hub, conn, reader, ip,
			rate.Limit(cfg.Config.InputRate), cfg.Config.InputBurst)
		client.Start()
	}
}

func handleRounds(rounds RoundHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rounds == nil {
			writeJSON(w, http.StatusOK, []RoundResult{})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := rounds.Recent(r.Context(), limit)
		if err != nil {
			log.Printf("round history: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "round history unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// handleInvite renders the join URL as a QR code
func handleInvite(publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := inviteSizeDefault
		if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
			size = int(Clamp(float64(v), inviteSizeMin, inviteSizeMax))
		}
		target := publicURL
		if target == "" {
			target = "http://" + r.Host + "/"
		}
		png, err := qrcode.Encode(target, qrcode.Medium, size)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}

// serveStatic serves the client bundle, never cached, 404 when missing
func serveStatic(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		clean := path.Clean("/" + r.URL.Path)
		if clean == "/" {
			clean = "/index.html"
		}
		file := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, file)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
