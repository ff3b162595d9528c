// Package session composes frame I/O, the wire codec, the handle table, the
// attribute model and the error mapping into the single request/response
// dispatch loop, plus the per-opcode request handlers. One Session object
// encapsulates the I/O buffers, the handle table and the handshake state for
// the lifetime of the process; no sharing between sessions is needed or
// supported.
package session

import (
	"github.com/sirupsen/logrus"

	"github.com/jevinskie/nih-sftpd/internal/binp"
	"github.com/jevinskie/nih-sftpd/internal/handles"
	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// Session holds the per-process protocol state. One Session exists per
// process; there is no reentrancy and no synchronization, since the dispatch
// loop is strictly single-threaded.
type Session struct {
	inFd, outFd int

	ib *binp.Buffer
	ob *binp.Buffer

	table handles.Table

	haveInit bool

	// op is the opcode of the request currently being dispatched; it gives
	// failure diagnostics their context without threading it through every
	// handler.
	op proto.Opcode

	log *logrus.Logger
}

// New constructs a Session reading requests from inFd and writing responses
// to outFd. log receives structured diagnostics for fatal conditions and, at
// Debug level, a per-request trace.
func New(inFd, outFd int, log *logrus.Logger) *Session {
	return &Session{
		inFd:  inFd,
		outFd: outFd,
		ib:    binp.NewPacketBuffer(proto.MaxPacket),
		ob:    binp.NewPacketBuffer(proto.MaxPacket),
		log:   log,
	}
}

// Run drives the dispatch loop until stream EOF or a fatal error. A nil
// return means the peer closed the stream in an orderly fashion; the caller
// should exit 0. A non-nil return is always fatal; the caller should log it
// and exit non-zero.
func (s *Session) Run() error {
	for {
		ok, err := ReadFrame(s.inFd, s.ib)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug("end of stream, exiting")
			return nil
		}
		if s.ib.Remaining() == 0 {
			// Empty payloads are silently ignored.
			continue
		}
		if err := s.dispatch(); err != nil {
			return err
		}
	}
}
