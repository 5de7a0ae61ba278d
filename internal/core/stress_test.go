package core

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"goping/internal/metrics"
	"goping/internal/transport"
)

// TestStress_ConcurrentClients hammers one server with parallel
// clients and checks nothing leaks once everything winds down.
func TestStress_ConcurrentClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	collector := metrics.New()
	addr, errCh, cancel := startServer(t, collector)

	const (
		clients  = 32
		requests = 10
	)

	var wg sync.WaitGroup
	failures := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runClient(addr, requests); err != nil {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)

	for err := range failures {
		require.NoError(t, err)
	}

	require.EqualValues(t, clients*requests, collector.PingsReceived())
	require.EqualValues(t, clients*requests, collector.PongsSent())
	// The readiness probe in startServer also counts as a connection.
	require.GreaterOrEqual(t, collector.TotalConnections(), int64(clients))

	shutdownServer(t, errCh, cancel)
	require.Zero(t, collector.ActiveConnections())
}

// runClient performs a fixed number of ping/pong exchanges on one
// connection.
func runClient(addr string, requests int) error {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	buf := make([]byte, 64)
	for i := 0; i < requests; i++ {
		if _, err := conn.Write([]byte("ping")); err != nil {
			return fmt.Errorf("write %d: %w", i, err)
		}
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			return err
		}
		n, err := conn.Read(buf)
		if err != nil {
			return fmt.Errorf("read %d: %w", i, err)
		}
		if got := string(buf[:n]); got != "pong" {
			return fmt.Errorf("exchange %d: got %q", i, got)
		}
	}
	return nil
}

// TestStress_ClientLifecycleLeak runs a full timer-driven client
// against a live server and verifies its reader goroutine exits.
func TestStress_ClientLifecycleLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	collector := metrics.New()
	addr, errCh, cancel := startServer(t, collector)

	m := &ConnectMode{
		Dialer:   &transport.TCPDialer{Timeout: time.Second},
		Address:  addr,
		Interval: 10 * time.Millisecond,
		Count:    5,
		Logger:   testLogger(),
		Metrics:  metrics.New(),
	}

	ctx, cancelRun := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelRun()
	require.NoError(t, m.Run(ctx))

	shutdownServer(t, errCh, cancel)
}

// TestStress_ChurnConnections opens and abandons connections rapidly
// while another client expects uninterrupted service.
func TestStress_ChurnConnections(t *testing.T) {
	collector := metrics.New()
	addr, errCh, cancel := startServer(t, collector)
	defer shutdownServer(t, errCh, cancel)

	steady, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer steady.Close()

	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		if i%2 == 0 {
			conn.Write([]byte("ping")) //nolint:errcheck
		}
		conn.Close()
	}

	// The long-lived client is unaffected by the churn.
	for i := 0; i < 3; i++ {
		require.Equal(t, "pong", exchange(t, steady))
	}

	waitFor(t, 2*time.Second, func() bool {
		return collector.ActiveConnections() == 1
	}, "churned connections not reaped")
}
