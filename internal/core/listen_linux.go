//go:build linux

package core

import (
	"context"
	"fmt"
	"net"

	"github.com/eapache/queue"
	"golang.org/x/sys/unix"

	"goping/config"
	"goping/internal/errors"
	"goping/internal/reactor"
	"goping/util"
)

// The Linux dispatcher is a single control loop over an epoll poller:
// the listening socket and every accepted connection sit in one
// readiness set, all descriptors are non-blocking, and the loop only
// ever suspends inside Wait.  A slow peer can therefore never stall
// service to the others.

// pollConn is one accepted peer.
type pollConn struct {
	id  uint64
	fd  int
	buf *[]byte // receive buffer, returned to the pool on drop

	// pending holds response bytes that could not be written without
	// blocking; they flush when the poller reports writability.
	pending    *queue.Queue
	pendingOff int // progress into the head pending chunk

	closed bool // liveness: set once the peer is known gone
}

// pollConnSet is the dispatcher's exclusively-owned connection set.
// Only the serve loop touches it, so it needs no locking.
type pollConnSet struct {
	listener    int
	conns       map[int]*pollConn
	nextID      uint64
	acceptFails int // consecutive accept failures, for backoff pacing
}

func (s *pollConnSet) add(fd int) *pollConn {
	s.nextID++
	c := &pollConn{
		id:      s.nextID,
		fd:      fd,
		buf:     util.GetBuf(),
		pending: queue.New(),
	}
	s.conns[fd] = c
	return c
}

func (s *pollConnSet) remove(c *pollConn) {
	c.closed = true
	delete(s.conns, c.fd)
	util.PutBuf(c.buf)
	c.buf = nil
}

func (m *ListenMode) serve(ctx context.Context) error {
	fd, err := m.bind()
	if err != nil {
		return err
	}

	poller, err := reactor.New()
	if err != nil {
		unix.Close(fd)
		return err
	}
	defer poller.Close()

	if err := poller.Add(fd); err != nil {
		unix.Close(fd)
		return errors.Wrap("register listener", m.Address, err)
	}

	m.Logger.Info("listening on %s", m.Address)

	set := &pollConnSet{listener: fd, conns: make(map[int]*pollConn)}
	defer m.closeAll(set)

	// Wake the poller when the context expires so the loop can finish
	// its current cycle and shut down with the set intact.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			poller.Wakeup() //nolint:errcheck
		case <-stop:
		}
	}()

	events := make([]reactor.Event, 128)
	for {
		n, err := poller.Wait(events)
		if err != nil {
			return errors.Wrap("poll", m.Address, err)
		}
		for i := 0; i < n; i++ {
			ev := events[i]
			switch {
			case ev.Wakeup:
				// Shutdown is checked once the cycle completes.
			case ev.FD == set.listener:
				m.acceptReady(poller, set)
			default:
				m.connReady(poller, set, ev)
			}
		}
		if ctx.Err() != nil {
			m.Logger.Verbose("shutting down, closing %d connection(s)", len(set.conns))
			return nil
		}
	}
}

// bind creates the non-blocking listening socket.  Any failure here is
// a startup fault and kills the process.
func (m *ListenMode) bind() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", m.Address)
	if err != nil {
		return -1, errors.Wrap("resolve", m.Address, err)
	}

	var sa unix.SockaddrInet4
	sa.Port = addr.Port
	if addr.IP != nil {
		ip4 := addr.IP.To4()
		if ip4 == nil {
			return -1, errors.Wrap("bind", m.Address, fmt.Errorf("IPv4 address required"))
		}
		copy(sa.Addr[:], ip4)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, errors.Wrap("socket", m.Address, err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap("setsockopt", m.Address, err)
	}
	if err := unix.Bind(fd, &sa); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap("bind", m.Address, err)
	}
	if err := unix.Listen(fd, m.backlog()); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap("listen", m.Address, err)
	}
	return fd, nil
}

// acceptReady drains the accept queue.  Accept faults are logged and
// paced but never stop the loop, and no connection is registered
// unless accept and poller registration both fully succeed.
func (m *ListenMode) acceptReady(p reactor.Poller, set *pollConnSet) {
	for {
		nfd, sa, err := unix.Accept4(set.listener, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			if errors.IsWouldBlock(err) {
				set.acceptFails = 0
				return
			}
			set.acceptFails++
			m.acceptFailed(errors.Wrap("accept", m.Address, err), set.acceptFails)
			return
		}
		set.acceptFails = 0

		if err := p.Add(nfd); err != nil {
			unix.Close(nfd)
			m.Logger.Error("register connection: %v", err)
			m.Metrics.RecordError(err.Error())
			continue
		}

		c := set.add(nfd)
		m.Metrics.ConnectionOpened()
		m.Logger.Info("new connection %d from %s", c.id, sockaddrString(sa))
	}
}

// connReady services one readiness event on an established connection.
func (m *ListenMode) connReady(p reactor.Poller, set *pollConnSet, ev reactor.Event) {
	c, ok := set.conns[ev.FD]
	if !ok || c.closed {
		// Already dropped earlier in this cycle.
		return
	}

	if ev.Writable && c.pending.Length() > 0 {
		if !m.flushPending(p, set, c) {
			return
		}
	}
	if !ev.Readable && !ev.Hangup {
		return
	}

	n, err := unix.Read(c.fd, *c.buf)
	switch {
	case err != nil && errors.IsWouldBlock(err):
		// Spurious wake; the next readiness event retries.
	case err != nil:
		// Read faults are handled exactly like a peer close: drop
		// the one connection, keep serving the rest.
		m.Logger.Error("%v", errors.WrapConn("read", c.id, err))
		m.Metrics.RecordError(err.Error())
		m.drop(p, set, c)
	case n == 0:
		m.Logger.Info("connection %d disconnected", c.id)
		m.drop(p, set, c)
	default:
		payload := (*c.buf)[:n]
		m.Metrics.PingReceived(n)
		m.Logger.Info("received %q from connection %d", payload, c.id)
		m.respond(p, set, c)
	}
}

// respond writes the response literal, queueing whatever would block.
func (m *ListenMode) respond(p reactor.Poller, set *pollConnSet, c *pollConn) {
	data := []byte(config.PongMessage)
	n, err := unix.Write(c.fd, data)
	if err != nil && errors.IsWouldBlock(err) {
		n, err = 0, nil
	}
	if err != nil {
		m.Logger.Error("%v", errors.WrapConn("write", c.id, err))
		m.Metrics.RecordError(err.Error())
		m.drop(p, set, c)
		return
	}
	if n < len(data) {
		c.pending.Add(append([]byte(nil), data[n:]...))
		if err := p.ModReadWrite(c.fd); err != nil {
			m.Logger.Error("%v", errors.WrapConn("watch write", c.id, err))
			m.drop(p, set, c)
		}
		return
	}
	m.Metrics.PongSent(n)
	m.Logger.Info("sent pong to connection %d", c.id)
}

// flushPending drains queued response bytes now that the socket is
// writable.  It reports whether the connection is still live.
func (m *ListenMode) flushPending(p reactor.Poller, set *pollConnSet, c *pollConn) bool {
	for c.pending.Length() > 0 {
		head := c.pending.Peek().([]byte)[c.pendingOff:]
		n, err := unix.Write(c.fd, head)
		if err != nil && errors.IsWouldBlock(err) {
			return true
		}
		if err != nil {
			m.Logger.Error("%v", errors.WrapConn("write", c.id, err))
			m.Metrics.RecordError(err.Error())
			m.drop(p, set, c)
			return false
		}
		if n < len(head) {
			c.pendingOff += n
			return true
		}
		c.pending.Remove()
		c.pendingOff = 0
		m.Metrics.PongSent(len(head))
		m.Logger.Info("sent pong to connection %d", c.id)
	}

	// Nothing left to flush; stop watching for writability.
	if err := p.ModRead(c.fd); err != nil {
		m.Logger.Error("%v", errors.WrapConn("watch read", c.id, err))
		m.drop(p, set, c)
		return false
	}
	return true
}

// drop closes one connection and removes it from the readiness set in
// the same cycle, so no dangling handle survives.
func (m *ListenMode) drop(p reactor.Poller, set *pollConnSet, c *pollConn) {
	p.Del(c.fd) //nolint:errcheck // the close below removes it from epoll regardless
	unix.Close(c.fd)
	set.remove(c)
	m.Metrics.ConnectionClosed()
}

// closeAll tears down the whole set plus the listener on shutdown.
func (m *ListenMode) closeAll(set *pollConnSet) {
	for _, c := range set.conns {
		c.closed = true
		unix.Close(c.fd)
		util.PutBuf(c.buf)
		m.Metrics.ConnectionClosed()
	}
	set.conns = nil
	unix.Close(set.listener)
}

func sockaddrString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(a.Addr[:]), a.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(a.Addr[:]), a.Port)
	default:
		return "unknown"
	}
}
