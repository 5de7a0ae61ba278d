// Package config defines the runtime configuration for goping and
// provides validation helpers.
package config

import (
	"time"

	"goping/internal/errors"
)

// Config holds every tuneable for a single goping run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host      string        // destination host (connect mode)
	Port      int           // destination port (connect mode)
	LocalPort int           // -p: listen port (listen mode)
	Listen    bool          // -l: serve pongs instead of sending pings
	Timeout   time.Duration // dial timeout (connect mode)
	NoDNS     bool          // -n: numeric-only, no DNS resolution

	// ── Cadence ──────────────────────────────────────────────────────
	Interval time.Duration // delay between pings; the timer fires
	// regardless of whether earlier responses have arrived
	Count int // stop after sending this many pings; 0 = unbounded

	// ── Output ───────────────────────────────────────────────────────
	Verbose int // repeatable -v, added on top of DefaultVerbosity
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Listen {
		if c.LocalPort == 0 {
			return &errors.ConfigError{
				Field:   "port",
				Message: "listen mode requires -p <port>",
			}
		}
		if c.LocalPort < 1 || c.LocalPort > 65535 {
			return &errors.ConfigError{
				Field:   "port",
				Value:   c.LocalPort,
				Message: "out of range 1-65535",
			}
		}
		if c.Count != 0 {
			return &errors.ConfigError{
				Field:   "count",
				Value:   c.Count,
				Message: "only applies to connect mode",
				Hint:    "the server answers every ping it receives",
			}
		}
		return nil
	}

	if c.Host == "" {
		return &errors.ConfigError{
			Field:   "host",
			Message: "hostname is required (use --help for usage)",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &errors.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "destination port out of range 1-65535",
		}
	}
	if c.Interval <= 0 {
		return &errors.ConfigError{
			Field:   "interval",
			Value:   c.Interval,
			Message: "must be positive",
			Hint:    "for example --interval 500ms",
		}
	}
	if c.Count < 0 {
		return &errors.ConfigError{
			Field:   "count",
			Value:   c.Count,
			Message: "must be zero or positive",
		}
	}
	if c.Timeout < 0 {
		return &errors.ConfigError{
			Field:   "timeout",
			Value:   c.Timeout,
			Message: "must be zero or positive",
		}
	}
	return nil
}
