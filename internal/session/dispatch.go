package session

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jevinskie/nih-sftpd/internal/attrs"
	"github.com/jevinskie/nih-sftpd/internal/binp"
	"github.com/jevinskie/nih-sftpd/internal/fserr"
	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// dispatch processes exactly one already-read request from IB and, unless
// the handler emitted nothing, writes exactly one response frame to OB and
// flushes it to fd 1.
//
// A panic from the wire codec (binp.ErrShortPacket on a truncated request
// body, or any buffer-overflow assertion) is recovered here and turned into
// the same fatal exit a stream I/O error causes: these are
// programmer/malformed-input conditions with no defined graceful recovery,
// not per-request failures.
func (s *Session) dispatch() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "protocol-fatal")
			} else {
				err = errors.Errorf("protocol-fatal: %v", r)
			}
			s.log.WithFields(logrus.Fields{"opcode": s.op}).WithError(err).Error("malformed request")
		}
	}()

	s.ob.Reset(s.ob.Cap())
	lengthMark := s.ob.Save()
	s.ob.Advance(4) // reserve the length field, patched in once the payload is known

	op := proto.Opcode(s.ib.GetByte())
	s.op = op

	if !s.haveInit {
		if op != proto.OpInit {
			s.log.WithFields(logrus.Fields{"opcode": op}).Error("first request is not INIT")
			return errors.Errorf("first request was opcode %d, not INIT", op)
		}
		s.handleInit()
		s.haveInit = true
	} else {
		if op == proto.OpInit {
			s.log.WithFields(logrus.Fields{"opcode": op}).Error("duplicate INIT")
			return errors.New("duplicate INIT")
		}
		id := s.ib.GetUint32()
		s.route(op, id)
	}

	return s.flush(lengthMark)
}

// flush patches the reserved length header with the actual payload size and
// drains the frame to fd 1. A handler that emitted nothing produces no frame
// at all; every request this server recognizes does respond, so the zero
// check never fires in practice.
func (s *Session) flush(lengthMark binp.Mark) error {
	payloadLen := s.ob.Pos() - 4
	s.ob.Swap(&lengthMark)
	s.ob.PutUint32(uint32(payloadLen))

	if payloadLen == 0 {
		return nil
	}
	return WriteFrame(s.outFd, s.ob.Raw()[:4+payloadLen])
}

// route dispatches a post-INIT request to its handler by opcode. Any opcode
// this server does not recognize is answered with STATUS(OP_UNSUPPORTED)
// carrying the id already read from the body.
func (s *Session) route(op proto.Opcode, id uint32) {
	switch op {
	case proto.OpOpen:
		s.handleOpen(id)
	case proto.OpClose:
		s.handleClose(id)
	case proto.OpRead:
		s.handleRead(id)
	case proto.OpWrite:
		s.handleWrite(id)
	case proto.OpLstat:
		s.handleStat(id, false)
	case proto.OpStat:
		s.handleStat(id, true)
	case proto.OpFstat:
		s.handleFstat(id)
	case proto.OpSetstat:
		s.handleSetstat(id)
	case proto.OpFsetstat:
		s.handleFsetstat(id)
	case proto.OpOpendir:
		s.handleOpendir(id)
	case proto.OpReaddir:
		s.handleReaddir(id)
	case proto.OpRemove:
		s.handleRemove(id)
	case proto.OpMkdir:
		s.handleMkdir(id)
	case proto.OpRmdir:
		s.handleRmdir(id)
	case proto.OpRealpath:
		s.handleRealpath(id)
	case proto.OpRename:
		s.handleRename(id)
	case proto.OpReadlink:
		s.handleReadlink(id)
	case proto.OpSymlink:
		s.handleSymlink(id)
	default:
		s.writeStatus(id, proto.StatusOpUnsupported)
	}
}

// --- response writers, shared by every handler ---

// writeStatus emits a STATUS response: id, code, canned message, lang tag.
func (s *Session) writeStatus(id uint32, code proto.Status) {
	s.traceFail(id, code, nil)
	s.emitStatus(id, code)
}

// writeErr maps a host error to its status code and emits the STATUS
// response, keeping the underlying error for the trace. A nil error emits
// STATUS(OK).
func (s *Session) writeErr(id uint32, err error) {
	code := fserr.FromError(err)
	s.traceFail(id, code, err)
	s.emitStatus(id, code)
}

func (s *Session) emitStatus(id uint32, code proto.Status) {
	s.ob.PutByte(byte(proto.OpStatus))
	s.ob.PutUint32(id)
	s.ob.PutUint32(uint32(code))
	s.ob.PutString(code.Message())
	s.ob.PutString(proto.Lang)
}

// traceFail logs a per-request failure at Debug level, naming the opcode,
// request id, status code and (when available) the host error. OK and EOF
// are ordinary outcomes, not failures.
func (s *Session) traceFail(id uint32, code proto.Status, err error) {
	if code == proto.StatusOK || code == proto.StatusEOF {
		return
	}
	entry := s.log.WithFields(logrus.Fields{"opcode": s.op, "id": id, "status": uint32(code)})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug(code.Message())
}

// writeHandle emits a HANDLE response.
func (s *Session) writeHandle(id uint32, wireHandle string) {
	s.ob.PutByte(byte(proto.OpHandle))
	s.ob.PutUint32(id)
	s.ob.PutString(wireHandle)
}

// writeAttrs emits an ATTRS response.
func (s *Session) writeAttrs(id uint32, a attrs.Attrs) {
	s.ob.PutByte(byte(proto.OpAttrs))
	s.ob.PutUint32(id)
	attrs.Encode(s.ob, a)
}
