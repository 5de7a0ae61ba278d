// Package reactor provides readiness multiplexing over raw file
// descriptors: a Poller waits on many sockets at once and reports
// which are ready, so a single control loop can serve every
// connection without a goroutine per socket.
package reactor

// Event reports readiness on one registered descriptor, or a wakeup
// request issued from another goroutine.
type Event struct {
	FD       int
	Readable bool
	Writable bool
	Hangup   bool // peer closed or descriptor error; a read will drain then report it
	Wakeup   bool // Wakeup() fired; FD is not meaningful
}

// Poller multiplexes readiness across registered descriptors.
//
// A Poller is not safe for concurrent use except for Wakeup, which may
// be called from any goroutine to interrupt a blocked Wait.
type Poller interface {
	// Add registers fd for read readiness.
	Add(fd int) error

	// ModRead switches fd back to read-only interest.
	ModRead(fd int) error

	// ModReadWrite additionally watches fd for write readiness,
	// used while a connection has queued writes to flush.
	ModReadWrite(fd int) error

	// Del removes fd from the readiness set.  The caller still owns
	// and must close the descriptor.
	Del(fd int) error

	// Wait blocks until at least one registered descriptor is ready
	// or Wakeup is called, then fills events and returns the count.
	Wait(events []Event) (int, error)

	// Wakeup forces a blocked Wait to return.
	Wakeup() error

	// Close releases the poller's own descriptors.
	Close() error
}
