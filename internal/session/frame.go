// Frame I/O: blocking read of length-prefixed input frames from fd 0,
// blocking write of response frames to fd 1. Reads and writes go directly
// against raw file descriptors via golang.org/x/sys/unix rather than through
// a buffered os.File: the component polls the descriptor for readiness
// immediately before each blocking call, so it behaves as blocking even when
// the parent hands over non-blocking descriptors, and bufio's own internal
// buffering would fight with that.
package session

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/jevinskie/nih-sftpd/internal/binp"
)

// pollFd blocks until fd is ready for the given poll events (unix.POLLIN or
// unix.POLLOUT), retrying on EINTR. fd 0/1 are expected to already be
// blocking descriptors; the poll keeps the reads and writes blocking even if
// they are not.
func pollFd(fd int, events int16) error {
	pfds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	for {
		n, err := unix.Poll(pfds, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return errors.Wrap(err, "poll")
		}
		if n > 0 {
			return nil
		}
	}
}

// readExact polls fd readable, then reads into buf until it is full or the
// stream ends. A zero-byte read means orderly end-of-stream and surfaces as
// a short result (n < len(buf)) with a nil error.
func readExact(fd int, buf []byte) (n int, err error) {
	for n < len(buf) {
		if err := pollFd(fd, unix.POLLIN); err != nil {
			return n, err
		}
		m, err := unix.Read(fd, buf[n:])
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return n, errors.Wrap(err, "read")
		}
		if m == 0 {
			return n, nil
		}
		n += m
	}
	return n, nil
}

// writeAll polls fd writable, then drains buf to it in a write-until-complete
// loop, retrying short writes and failing fast on error.
func writeAll(fd int, buf []byte) error {
	for len(buf) > 0 {
		if err := pollFd(fd, unix.POLLOUT); err != nil {
			return err
		}
		n, err := unix.Write(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return errors.Wrap(err, "write")
		}
		buf = buf[n:]
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from fd into ib. ok is false on
// a clean end-of-stream, at which point the caller should exit successfully;
// a non-nil err is always fatal.
func ReadFrame(fd int, ib *binp.Buffer) (ok bool, err error) {
	var lenHdr [4]byte
	n, err := readExact(fd, lenHdr[:])
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if n < len(lenHdr) {
		return false, errors.New("stream ended mid length header")
	}

	length := binary.BigEndian.Uint32(lenHdr[:])
	if int(length) > ib.Cap() {
		return false, errors.Errorf("frame length %d exceeds buffer capacity %d", length, ib.Cap())
	}

	ib.Reset(int(length))
	if length == 0 {
		return true, nil
	}

	body := ib.Raw()[:length]
	n, err = readExact(fd, body)
	if err != nil {
		return false, err
	}
	if n < int(length) {
		return false, errors.New("stream ended mid frame body")
	}
	return true, nil
}

// WriteFrame drains frame (already including its length header) to fd.
func WriteFrame(fd int, frame []byte) error {
	return writeAll(fd, frame)
}
