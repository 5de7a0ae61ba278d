package retry

import (
	"testing"
	"time"
)

// BenchmarkDelay measures the cost of computing a backoff delay, which
// sits on the dispatcher's accept-failure path.
func BenchmarkDelay(b *testing.B) {
	bo := &Backoff{
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
	for i := 0; i < b.N; i++ {
		_ = bo.Delay(i%16 + 1)
	}
}
