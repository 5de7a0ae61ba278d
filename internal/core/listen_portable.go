//go:build !linux

package core

import (
	"context"
	"net"
	"sync"

	"goping/config"
	"goping/internal/errors"
	"goping/util"
)

// Platforms without the epoll poller run a goroutine per connection
// on top of net.Listener.  The connection set is shared between the
// handlers and the shutdown path, so connTable serialises it behind
// one mutex; the observable behaviour matches the single-loop
// dispatcher exactly.

func (m *ListenMode) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.Address)
	if err != nil {
		return errors.Wrap("listen", m.Address, err)
	}

	m.Logger.Info("listening on %s", m.Address)

	table := newConnTable()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer func() {
		for n := table.closeAll(); n > 0; n-- {
			m.Metrics.ConnectionClosed()
		}
		wg.Wait()
	}()

	acceptFails := 0
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				m.Logger.Verbose("shutting down, closing %d connection(s)", table.len())
				return nil
			}
			acceptFails++
			m.acceptFailed(errors.Wrap("accept", m.Address, err), acceptFails)
			continue
		}
		acceptFails = 0

		id := table.register(conn)
		m.Metrics.ConnectionOpened()
		m.Logger.Info("new connection %d from %s", id, conn.RemoteAddr())

		wg.Add(1)
		go func() {
			defer wg.Done()
			m.serveConn(table, id, conn)
		}()
	}
}

// serveConn answers pings on one connection until the peer goes away.
func (m *ListenMode) serveConn(table *connTable, id uint64, conn net.Conn) {
	buf := util.GetBuf()
	defer util.PutBuf(buf)

	for {
		n, err := conn.Read(*buf)
		if err != nil {
			if !table.unregister(id) {
				// Shutdown already closed this connection.
				return
			}
			m.Metrics.ConnectionClosed()
			if errors.IsPeerClosed(err) || util.IsBenignClose(err) {
				m.Logger.Info("connection %d disconnected", id)
			} else {
				m.Logger.Error("%v", errors.WrapConn("read", id, err))
				m.Metrics.RecordError(err.Error())
			}
			return
		}

		payload := (*buf)[:n]
		m.Metrics.PingReceived(n)
		m.Logger.Info("received %q from connection %d", payload, id)

		wn, err := conn.Write([]byte(config.PongMessage))
		if err != nil {
			if table.unregister(id) {
				m.Metrics.ConnectionClosed()
				m.Logger.Error("%v", errors.WrapConn("write", id, err))
				m.Metrics.RecordError(err.Error())
			}
			return
		}
		m.Metrics.PongSent(wn)
		m.Logger.Info("sent pong to connection %d", id)
	}
}
