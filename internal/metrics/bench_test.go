package metrics

import "testing"

// BenchmarkCollector measures counter overhead on the dispatcher's
// per-message path.
func BenchmarkCollector(b *testing.B) {
	c := New()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.PingReceived(4)
			c.PongSent(4)
		}
	})
}

// BenchmarkCollectorNil confirms the nil receiver fast path costs
// nearly nothing.
func BenchmarkCollectorNil(b *testing.B) {
	var c *Collector
	for i := 0; i < b.N; i++ {
		c.PingReceived(4)
		c.PongSent(4)
	}
}
