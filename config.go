package main

import (
	"os"
	"strconv"
	"strings"
)

const portAttempts = 20

// Config holds process settings read from the environment
type Config struct {
	Host          string
	Port          int
	PublicDir     string
	PublicURL     string
	MaxConnsPerIP int
	MaxTotalConns int
	InputRate     float64 // messages per second per connection
	InputBurst    int
	CORSOrigins   []string
}

var defaultCORSOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// LoadConfig reads Config from the environment. Unset or unparsable values
// fall back to defaults.
func LoadConfig() Config {
	return Config{
		Host:          getEnv("HOST", "127.0.0.1"),
		Port:          getEnvInt("PORT", 5173),
		PublicDir:     getEnv("PUBLIC_DIR", "./public"),
		PublicURL:     getEnv("PUBLIC_URL", ""),
		MaxConnsPerIP: getEnvInt("MAX_CONNS_PER_IP", 8),
		MaxTotalConns: getEnvInt("MAX_TOTAL_CONNS", 64),
		InputRate:     getEnvFloat("INPUT_RATE", 60),
		InputBurst:    getEnvInt("INPUT_BURST", 120),
		CORSOrigins:   getEnvList("CORS_ORIGINS", defaultCORSOrigins),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
