package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GOPING_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GOPING_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("GOPING_PORT"); v > 0 {
		cfg.LocalPort = v
		cfg.Port = v
	}
	if envBool("GOPING_LISTEN") {
		cfg.Listen = true
	}
	if envBool("GOPING_NO_DNS") {
		cfg.NoDNS = true
	}
	if v := envDuration("GOPING_INTERVAL"); v > 0 {
		cfg.Interval = v
	}
	if v := envInt("GOPING_TIMEOUT"); v > 0 {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	if v := envInt("GOPING_COUNT"); v > 0 {
		cfg.Count = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// envDuration accepts either a Go duration string ("250ms", "2s") or a
// bare integer interpreted as seconds.
func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 0
}
