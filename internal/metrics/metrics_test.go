package metrics

import (
	"encoding/json"
	"sync"
	"testing"
)

func TestCollector_Connections(t *testing.T) {
	c := New()

	c.ConnectionOpened()
	c.ConnectionOpened()
	if c.ActiveConnections() != 2 {
		t.Errorf("active = %d, want 2", c.ActiveConnections())
	}
	if c.TotalConnections() != 2 {
		t.Errorf("total = %d, want 2", c.TotalConnections())
	}

	c.ConnectionClosed()
	if c.ActiveConnections() != 1 {
		t.Errorf("active = %d, want 1", c.ActiveConnections())
	}
	if c.TotalConnections() != 2 {
		t.Errorf("total should remain 2, got %d", c.TotalConnections())
	}
}

func TestCollector_Protocol(t *testing.T) {
	c := New()

	c.PingReceived(4)
	c.PingReceived(4)
	c.PongSent(4)

	if c.PingsReceived() != 2 {
		t.Errorf("pings received = %d, want 2", c.PingsReceived())
	}
	if c.PongsSent() != 1 {
		t.Errorf("pongs sent = %d, want 1", c.PongsSent())
	}
	if c.TotalBytesIn() != 8 {
		t.Errorf("bytes in = %d, want 8", c.TotalBytesIn())
	}
	if c.TotalBytesOut() != 4 {
		t.Errorf("bytes out = %d, want 4", c.TotalBytesOut())
	}

	c.PingSent(4)
	c.PongReceived(4)
	if c.PingsSent() != 1 || c.PongsReceived() != 1 {
		t.Errorf("client counters = %d/%d, want 1/1", c.PingsSent(), c.PongsReceived())
	}
}

func TestCollector_Errors(t *testing.T) {
	c := New()

	c.RecordError("first error")
	c.RecordError("second error")

	if c.ErrorCount() != 2 {
		t.Errorf("errors = %d, want 2", c.ErrorCount())
	}

	s := c.Snapshot()
	if s.LastErrorMessage != "second error" {
		t.Errorf("last error = %q, want %q", s.LastErrorMessage, "second error")
	}
	if s.LastError == "" {
		t.Error("last error timestamp missing")
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	// None of these should panic.
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.PingSent(4)
	c.PingReceived(4)
	c.PongSent(4)
	c.PongReceived(4)
	c.RecordError("ignored")

	if c.ActiveConnections() != 0 || c.ErrorCount() != 0 {
		t.Error("nil collector should report zeros")
	}
	if s := c.Snapshot(); s.ConnectionsTotal != 0 {
		t.Error("nil collector snapshot should be empty")
	}
}

func TestSnapshot_JSON(t *testing.T) {
	c := New()
	c.ConnectionOpened()
	c.PingReceived(4)
	c.PongSent(4)

	var s Snapshot
	if err := json.Unmarshal([]byte(c.Snapshot().String()), &s); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if s.PingsReceived != 1 || s.PongsSent != 1 || s.ConnectionsActive != 1 {
		t.Errorf("roundtripped snapshot = %+v", s)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.ConnectionOpened()
				c.PingReceived(4)
				c.PongSent(4)
				c.ConnectionClosed()
			}
		}()
	}
	wg.Wait()

	if c.TotalConnections() != 8000 {
		t.Errorf("total = %d, want 8000", c.TotalConnections())
	}
	if c.ActiveConnections() != 0 {
		t.Errorf("active = %d, want 0", c.ActiveConnections())
	}
	if c.PingsReceived() != 8000 || c.PongsSent() != 8000 {
		t.Errorf("protocol counters %d/%d, want 8000/8000",
			c.PingsReceived(), c.PongsSent())
	}
}
