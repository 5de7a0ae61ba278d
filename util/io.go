package util

import (
	"errors"
	"io"
	"net"
)

// IsBenignClose reports whether err is one of the errors expected when
// a connection is torn down deliberately during shutdown.  Callers use
// it to avoid surfacing a fault for a close they initiated themselves.
func IsBenignClose(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
