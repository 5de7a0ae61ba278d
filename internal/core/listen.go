package core

import (
	"context"
	"time"

	"goping/config"
	"goping/internal/metrics"
	"goping/internal/retry"
	"goping/util"
)

// ListenMode is the pong server.  It owns the listening endpoint and
// every accepted connection; no other component reads or mutates the
// connection set.
//
// Per-connection faults are never fatal: a peer that disconnects,
// resets, or triggers a read/write error is dropped from the set and
// the loop keeps serving everyone else.  Only endpoint setup can fail
// the mode, and only cancellation of ctx ends it, cleanly, with every
// connection closed.
//
// Two implementations of serve exist: a single-loop readiness
// dispatcher over epoll on Linux, and a goroutine-per-connection
// fallback elsewhere.  Both produce the same observable events.
type ListenMode struct {
	Address string // ":port" or "host:port"
	Backlog int    // pending-accept queue length; 0 uses the default
	Logger  *util.Logger
	Metrics *metrics.Collector

	// AcceptBackoff paces retries after temporary accept failures
	// such as descriptor exhaustion.  Nil disables pacing.
	AcceptBackoff *retry.Backoff
}

// Run serves until ctx is cancelled.  A nil return means a graceful
// shutdown; any error is a startup fault (bind/listen) and the server
// never started serving.
func (m *ListenMode) Run(ctx context.Context) error {
	return m.serve(ctx)
}

func (m *ListenMode) backlog() int {
	if m.Backlog > 0 {
		return m.Backlog
	}
	return config.DefaultListenBacklog
}

// acceptFailed logs one accept fault and sleeps the backoff delay for
// the given consecutive-failure count.  Accept faults never stop the
// server.
func (m *ListenMode) acceptFailed(err error, consecutive int) {
	m.Logger.Error("accept: %v", err)
	m.Metrics.RecordError(err.Error())
	if m.AcceptBackoff != nil {
		time.Sleep(m.AcceptBackoff.Delay(consecutive))
	}
}
