package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, environment variable loading, and tests.

// Wire payloads.  Both messages are sent as raw bytes with no length
// prefix or terminator.  This works only because the two literals are
// short and have distinct content; back-to-back messages on a stream
// may still be coalesced into one read or split across reads, and any
// protocol carrying richer payloads must add real framing first.
const (
	// PingMessage is the request literal the client sends.
	PingMessage = "ping"

	// PongMessage is the response literal the server answers with.
	PongMessage = "pong"
)

const (
	// DefaultInterval is the client's send cadence.  The timer fires
	// once per interval regardless of response arrival.
	DefaultInterval = 1 * time.Second

	// DefaultDialTimeout bounds connection establishment.
	DefaultDialTimeout = 10 * time.Second

	// DefaultListenBacklog is the pending-accept queue length passed
	// to listen(2).
	DefaultListenBacklog = 128

	// DefaultVerbosity is the baseline log level before any -v flags:
	// protocol events print, lifecycle detail does not.
	DefaultVerbosity = 1

	// DefaultAcceptBackoffMax caps the pause after consecutive
	// temporary accept failures (descriptor exhaustion and the like).
	DefaultAcceptBackoffMax = 1 * time.Second
)
