//go:build !linux

package reactor

import "goping/internal/errors"

// New returns an error on platforms without a poller implementation.
// The goroutine-based dispatcher in internal/core covers them instead.
func New() (Poller, error) {
	return nil, errors.New("reactor: readiness polling is not supported on this platform")
}
