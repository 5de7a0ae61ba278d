// Package session tracks the lifecycle of the client's single outbound
// connection.
//
// A process creates exactly one Session, connects it exactly once, and
// never reuses it: the state machine only moves forward, from
// StateConnecting through StateConnected to StateTerminated.
package session

import (
	"net"
	"time"
)

// State is a point in the session lifecycle.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session holds the one outbound connection and its timing state.
// All fields are owned by the client loop; Session is not safe for
// concurrent mutation.
type Session struct {
	Conn net.Conn

	state    State
	lastSend time.Time
}

// New returns a Session in the connecting state.
func New() *Session {
	return &Session{state: StateConnecting}
}

// Attach binds the established connection and moves the session to
// connected.  Attaching to a terminated session is a programming
// error and panics rather than silently reviving the session.
func (s *Session) Attach(conn net.Conn) {
	if s.state == StateTerminated {
		panic("session: attach after terminate")
	}
	s.Conn = conn
	s.state = StateConnected
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// MarkSend records that a request went out now.
func (s *Session) MarkSend() { s.lastSend = time.Now() }

// LastSend returns when the most recent request was sent, or the zero
// time if none has been.
func (s *Session) LastSend() time.Time { return s.lastSend }

// Terminate closes the connection (if any) and moves the session to
// its final state.  Calling Terminate more than once is harmless.
func (s *Session) Terminate() {
	if s.state == StateTerminated {
		return
	}
	s.state = StateTerminated
	if s.Conn != nil {
		s.Conn.Close()
	}
}
