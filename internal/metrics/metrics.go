// Package metrics provides lightweight, lock-free counters for
// tracking runtime statistics of a goping run.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one server or client process.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	pingsSent         atomic.Int64
	pingsReceived     atomic.Int64
	pongsSent         atomic.Int64
	pongsReceived     atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64
	errorsTotal       atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the number of currently open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ── Protocol metrics ─────────────────────────────────────────────────

// PingSent records an outbound request of n bytes (client side).
func (c *Collector) PingSent(n int) {
	if c == nil {
		return
	}
	c.pingsSent.Add(1)
	c.bytesOut.Add(int64(n))
}

// PingReceived records an inbound request of n bytes (server side).
func (c *Collector) PingReceived(n int) {
	if c == nil {
		return
	}
	c.pingsReceived.Add(1)
	c.bytesIn.Add(int64(n))
}

// PongSent records an outbound response of n bytes (server side).
func (c *Collector) PongSent(n int) {
	if c == nil {
		return
	}
	c.pongsSent.Add(1)
	c.bytesOut.Add(int64(n))
}

// PongReceived records an inbound response of n bytes (client side).
func (c *Collector) PongReceived(n int) {
	if c == nil {
		return
	}
	c.pongsReceived.Add(1)
	c.bytesIn.Add(int64(n))
}

// PingsSent returns the lifetime outbound request count.
func (c *Collector) PingsSent() int64 {
	if c == nil {
		return 0
	}
	return c.pingsSent.Load()
}

// PingsReceived returns the lifetime inbound request count.
func (c *Collector) PingsReceived() int64 {
	if c == nil {
		return 0
	}
	return c.pingsReceived.Load()
}

// PongsSent returns the lifetime outbound response count.
func (c *Collector) PongsSent() int64 {
	if c == nil {
		return 0
	}
	return c.pongsSent.Load()
}

// PongsReceived returns the lifetime inbound response count.
func (c *Collector) PongsReceived() int64 {
	if c == nil {
		return 0
	}
	return c.pongsReceived.Load()
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	ConnectionsActive int64  `json:"connections_active"`
	ConnectionsTotal  int64  `json:"connections_total"`
	PingsSent         int64  `json:"pings_sent"`
	PingsReceived     int64  `json:"pings_received"`
	PongsSent         int64  `json:"pongs_sent"`
	PongsReceived     int64  `json:"pongs_received"`
	BytesIn           int64  `json:"bytes_in"`
	BytesOut          int64  `json:"bytes_out"`
	ErrorsTotal       int64  `json:"errors_total"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		PingsSent:         c.pingsSent.Load(),
		PingsReceived:     c.pingsReceived.Load(),
		PongsSent:         c.pongsSent.Load(),
		PongsReceived:     c.pongsReceived.Load(),
		BytesIn:           c.bytesIn.Load(),
		BytesOut:          c.bytesOut.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// String renders the snapshot as single-line JSON for log output.
func (s Snapshot) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}
