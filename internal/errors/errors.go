// Package errors provides domain-specific error types for goping.
//
// These types carry structured context (operation, address, connection
// id, retryability) that helps callers decide how to handle failures
// and provides better diagnostics than plain string wrapping.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrPeerClosed marks an orderly shutdown by the remote side
	// (a zero-byte read).  The server treats it as a normal
	// disconnect; the client treats it as fatal.
	ErrPeerClosed = errors.New("peer closed the connection")

	ErrNotConnected = errors.New("not connected")
	ErrTimeout      = errors.New("operation timed out")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // operation: "dial", "bind", "listen", "accept", "write", "read", "poll"
	Addr      string // network address involved (empty for per-connection faults)
	ConnID    uint64 // connection identifier, 0 when not applicable
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	var s string
	switch {
	case e.ConnID != 0:
		s = fmt.Sprintf("%s connection %d: %v", e.Op, e.ConnID, e.Err)
	case e.Addr != "":
		s = fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	default:
		s = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError for an address-level operation,
// automatically detecting retryability from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// WrapConn creates a NetworkError for a fault on one connection.
func WrapConn(op string, connID uint64, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		ConnID:    connID,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// ── Classification helpers ───────────────────────────────────────────

// IsWouldBlock reports whether err is the transient "operation would
// block" condition of a non-blocking socket.  Would-block conditions
// are retried on the next readiness event and never logged as faults.
func IsWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

// IsPeerClosed reports whether err marks an orderly remote shutdown.
func IsPeerClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrPeerClosed)
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return classifyRetryable(err)
}

// IsTemporary reports whether err represents a temporary condition,
// such as accept failing under descriptor pressure.
func IsTemporary(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable // temporary ≈ retryable for network errors
	}
	return classifyRetryable(err)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsWouldBlock(err) || errors.Is(err, syscall.EINTR) {
		return true
	}
	// Descriptor exhaustion during accept clears up once connections
	// drain, so it should not kill the accept loop.
	if errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	// net.OpError with Temporary() hint
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use goping/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
