// Package core is the orchestration layer.  It composes transports and
// the readiness poller into complete operational modes and provides a
// builder that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	reactor/transport  →  session  →  core  →  cmd (CLI)
//
// Two modes exist: ListenMode answers every "ping" it receives with
// "pong" across any number of simultaneous connections, and
// ConnectMode sends "ping" on a fixed cadence and prints whatever
// comes back.
package core

import "context"

// Mode represents a complete operational mode of goping.  Each mode
// owns its full lifecycle from endpoint setup to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
