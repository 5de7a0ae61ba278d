//go:build linux

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"goping/internal/errors"
)

// epollPoller implements Poller over epoll(7).  An eventfd registered
// alongside the sockets carries wakeup requests, so shutdown never
// needs a poll timeout.
type epollPoller struct {
	epfd   int
	wakefd int
}

// New creates the platform poller.
func New() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap("epoll_create", "", err)
	}

	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, errors.Wrap("eventfd", "", err)
	}

	p := &epollPoller{epfd: epfd, wakefd: wakefd}
	if err := p.ctl(unix.EPOLL_CTL_ADD, wakefd, unix.EPOLLIN); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, err
	}
	return p, nil
}

func (p *epollPoller) ctl(op, fd int, events uint32) error {
	err := unix.EpollCtl(p.epfd, op, fd, &unix.EpollEvent{
		Events: events,
		Fd:     int32(fd),
	})
	if err != nil {
		return errors.Wrap("epoll_ctl", "", err)
	}
	return nil
}

func (p *epollPoller) Add(fd int) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, unix.EPOLLIN|unix.EPOLLRDHUP)
}

func (p *epollPoller) ModRead(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, unix.EPOLLIN|unix.EPOLLRDHUP)
}

func (p *epollPoller) ModReadWrite(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, unix.EPOLLIN|unix.EPOLLOUT|unix.EPOLLRDHUP)
}

func (p *epollPoller) Del(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return errors.Wrap("epoll_ctl", "", err)
	}
	return nil
}

func (p *epollPoller) Wait(events []Event) (int, error) {
	raw := make([]unix.EpollEvent, len(events))
	for {
		n, err := unix.EpollWait(p.epfd, raw, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, errors.Wrap("epoll_wait", "", err)
		}

		for i := 0; i < n; i++ {
			ev := raw[i]
			fd := int(ev.Fd)
			if fd == p.wakefd {
				p.drainWakeup()
				events[i] = Event{Wakeup: true}
				continue
			}
			events[i] = Event{
				FD:       fd,
				Readable: ev.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0,
				Writable: ev.Events&unix.EPOLLOUT != 0,
				Hangup:   ev.Events&(unix.EPOLLHUP|unix.EPOLLRDHUP|unix.EPOLLERR) != 0,
			}
		}
		return n, nil
	}
}

func (p *epollPoller) Wakeup() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(p.wakefd, buf[:])
		if err == unix.EINTR {
			continue
		}
		// A full eventfd counter still wakes the poller.
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return errors.Wrap("wakeup", "", err)
		}
		return nil
	}
}

func (p *epollPoller) drainWakeup() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (p *epollPoller) Close() error {
	werr := unix.Close(p.wakefd)
	eerr := unix.Close(p.epfd)
	if eerr != nil {
		return eerr
	}
	return werr
}
