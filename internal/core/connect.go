package core

import (
	"context"
	"time"

	"goping/config"
	"goping/internal/errors"
	"goping/internal/metrics"
	"goping/internal/session"
	"goping/internal/transport"
	"goping/util"
)

// ConnectMode is the ping client.  It dials the server exactly once
// and then drives two independent triggers: a fixed-interval timer
// that sends "ping" whether or not earlier responses have arrived,
// and inbound data from a reader goroutine.  Any fault after the
// connection is established terminates the session.
type ConnectMode struct {
	Dialer   transport.Dialer
	Address  string
	Interval time.Duration
	Count    int // stop after this many pings; 0 = run until cancelled
	Logger   *util.Logger
	Metrics  *metrics.Collector
}

// Run dials the remote address and pumps the send/receive loop until
// a fatal fault, the context expires, or the configured count of
// pings has gone out.
func (m *ConnectMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	m.Logger.Verbose("connecting to %s", m.Address)

	sess := session.New()
	conn, err := m.Dialer.Dial(ctx, "tcp", m.Address)
	if err != nil {
		sess.Terminate()
		m.Metrics.RecordError(err.Error())
		return errors.Wrap("connect", m.Address, err)
	}
	sess.Attach(conn)
	m.Metrics.ConnectionOpened()
	m.Logger.Info("connected to %s", conn.RemoteAddr())

	defer func() {
		sess.Terminate()
		m.Metrics.ConnectionClosed()
	}()

	return m.loop(ctx, sess)
}

// readResult carries one inbound payload or the read error that ended
// the reader goroutine.
type readResult struct {
	data []byte
	err  error
}

func (m *ConnectMode) loop(ctx context.Context, sess *session.Session) error {
	// The reader goroutine turns socket readability into channel
	// sends, so the select below can watch the network and the timer
	// at the same time.  Waiting on the socket alone would make the
	// next send hostage to response arrival.
	readCh := make(chan readResult)
	done := make(chan struct{})
	defer close(done)

	go m.readPump(sess, readCh, done)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	sent := 0
	for {
		select {
		case <-ctx.Done():
			m.Logger.Verbose("cancelled, closing connection")
			return nil

		case <-ticker.C:
			// Send on schedule no matter how many responses are
			// outstanding.
			if err := m.sendPing(sess); err != nil {
				if errors.IsWouldBlock(err) {
					m.Logger.Debug("send would block, retrying next tick")
					continue
				}
				m.Logger.Error("send ping: %v", err)
				m.Metrics.RecordError(err.Error())
				return errors.Wrap("write", m.Address, err)
			}
			sent++
			if m.Count > 0 && sent >= m.Count {
				m.Logger.Verbose("sent %d ping(s), done", sent)
				return nil
			}

		case res := <-readCh:
			if res.err != nil {
				if errors.IsPeerClosed(res.err) {
					m.Logger.Error("server disconnected")
					m.Metrics.RecordError("server disconnected")
					return errors.Wrap("read", m.Address, errors.ErrPeerClosed)
				}
				m.Logger.Error("read: %v", res.err)
				m.Metrics.RecordError(res.err.Error())
				return errors.Wrap("read", m.Address, res.err)
			}
			m.Metrics.PongReceived(len(res.data))
			m.Logger.Info("received: %s", res.data)
		}
	}
}

func (m *ConnectMode) sendPing(sess *session.Session) error {
	if _, err := sess.Conn.Write([]byte(config.PingMessage)); err != nil {
		return err
	}
	sess.MarkSend()
	m.Metrics.PingSent(len(config.PingMessage))
	m.Logger.Info("sent: %s", config.PingMessage)
	return nil
}

// readPump blocks on the connection and forwards payloads until a
// read error or until the main loop signals done.
func (m *ConnectMode) readPump(sess *session.Session, readCh chan<- readResult, done <-chan struct{}) {
	buf := util.GetBuf()
	defer util.PutBuf(buf)

	for {
		n, err := sess.Conn.Read(*buf)
		if n > 0 {
			data := append([]byte(nil), (*buf)[:n]...)
			select {
			case readCh <- readResult{data: data}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case readCh <- readResult{err: err}:
			case <-done:
			}
			return
		}
	}
}
