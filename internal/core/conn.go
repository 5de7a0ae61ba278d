package core

import (
	"net"
	"sync"
)

// Connection ids are opaque handles: they increase monotonically for
// the life of the process and are never reused, so a log line always
// refers to exactly one peer.

// connTable is the connection set of the goroutine-based dispatcher.
// Unlike the poller variant, connections here are touched from one
// goroutine per peer plus the shutdown path, so the table holds the
// single mutex that serialises every mutation.
type connTable struct {
	mu     sync.Mutex
	conns  map[uint64]net.Conn
	nextID uint64
}

func newConnTable() *connTable {
	return &connTable{conns: make(map[uint64]net.Conn)}
}

// register adds the accepted connection and returns its id.
func (t *connTable) register(conn net.Conn) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.conns[id] = conn
	return id
}

// unregister removes and closes the connection.  It reports whether
// the connection was still live, so a disconnect is accounted exactly
// once even when the handler and the shutdown path race.
func (t *connTable) unregister(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	conn, ok := t.conns[id]
	if !ok {
		return false
	}
	delete(t.conns, id)
	conn.Close()
	return true
}

func (t *connTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

// closeAll tears down every live connection during shutdown and
// returns how many it closed.
func (t *connTable) closeAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.conns)
	for id, conn := range t.conns {
		conn.Close()
		delete(t.conns, id)
	}
	return n
}
