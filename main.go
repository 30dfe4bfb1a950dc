package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env file: %v", err)
	}
	cfg := LoadConfig()

	rounds, err := OpenRoundLog(":memory:")
	if err != nil {
		log.Fatalf("round log: %v", err)
	}

	world := NewWorld(rand.New(rand.NewSource(time.Now().UnixNano())))
	world.ensureBots()
	world.StartRound()

	game := NewGame(world, rounds)
	go game.Run()

	hub := NewHub(cfg.MaxConnsPerIP, cfg.MaxTotalConns)
	router := NewRouter(RouterConfig{
		Game:    game,
		Hub:     hub,
		Rounds:  rounds,
		Config:  cfg,
		Logging: true,
	})

	ln, err := listenWithFallback(cfg.Host, cfg.Port, portAttempts)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	server := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("shadowfighter server running on http://%s", ln.Addr())
		log.Printf("serving client files from %s", cfg.PublicDir)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
	game.Stop()
	if err := rounds.Close(); err != nil {
		log.Printf("round log close: %v", err)
	}
}

// listenWithFallback binds host:port, moving to the next port while the
// address is in use, for at most attempts ports
func listenWithFallback(host string, port, attempts int) (net.Listener, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		addr := net.JoinHostPort(host, fmt.Sprint(port+i))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		log.Printf("port %d in use, trying %d", port+i, port+i+1)
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d..%d: %w", port, port+attempts-1, lastErr)
}
