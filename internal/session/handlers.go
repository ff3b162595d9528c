package session

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/jevinskie/nih-sftpd/internal/attrs"
	"github.com/jevinskie/nih-sftpd/internal/handles"
	"github.com/jevinskie/nih-sftpd/internal/hostfs"
	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// handleInit processes the mandatory version handshake. INIT carries no
// request id and never produces a STATUS/HANDLE response; the reply is a
// bare VERSION opcode followed by the server's fixed protocol version. A
// client version below what this server speaks is fatal, there is no
// graceful downgrade path.
func (s *Session) handleInit() {
	clientVersion := s.ib.GetUint32()
	if clientVersion < proto.ProtocolVersion {
		panic(errors.Errorf("client requested SFTP version %d, this server requires >= %d", clientVersion, proto.ProtocolVersion))
	}
	s.ob.PutByte(byte(proto.OpVersion))
	s.ob.PutUint32(proto.ProtocolVersion)
}

// handleOpen implements OPEN.
func (s *Session) handleOpen(id uint32) {
	filename := s.ib.GetString()
	pflags := s.ib.GetUint32()
	a := attrs.Decode(s.ib)

	fd, err := hostfs.Open(filename, hostfs.PflagsToUnix(pflags), attrs.OpenMode(a))
	if err != nil {
		s.writeErr(id, err)
		return
	}

	wireHandle, ok := s.table.AllocFile(fd)
	if !ok {
		_ = hostfs.Close(fd)
		s.writeStatus(id, proto.StatusFailure)
		return
	}
	s.writeHandle(id, wireHandle)
}

// handleClose implements CLOSE. It accepts either a FILE or a DIR handle,
// releasing whichever OS resource it owns before freeing the slot.
func (s *Session) handleClose(id uint32) {
	wireHandle := s.ib.GetString()
	kind, fd, dir, ok := s.table.Any(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}

	var err error
	switch kind {
	case handles.KindFile:
		err = hostfs.Close(fd)
	case handles.KindDir:
		err = dir.Close()
	}
	s.table.Release(wireHandle)
	s.writeErr(id, err)
}

// handleRead implements READ: a clamped, direct-into-buffer read that
// reports a short or zero-length result without treating either as an error
// in its own right.
func (s *Session) handleRead(id uint32) {
	wireHandle := s.ib.GetString()
	offset := s.ib.GetUint64()
	length := s.ib.GetUint32()

	fd, ok := s.table.File(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}

	start := s.ob.Save()

	const dataHeader = 9 // opcode(1) + id(4) + data length(4)
	if maxLen := uint32(s.ob.Remaining()) - dataHeader; length > maxLen {
		length = maxLen
	}

	s.ob.PutByte(byte(proto.OpData))
	s.ob.PutUint32(id)
	lengthMark := s.ob.Save()
	s.ob.Advance(4) // reserve the data length field

	n, err := hostfs.Read(fd, offset, s.ob.Tail()[:length])
	switch {
	case err != nil:
		s.ob.Swap(&start)
		s.writeErr(id, err)
	case n == 0:
		s.ob.Swap(&start)
		s.writeStatus(id, proto.StatusEOF)
	default:
		s.ob.Advance(n)
		s.ob.Swap(&lengthMark)
		s.ob.PutUint32(uint32(n))
		s.ob.Swap(&lengthMark)
	}
}

// handleWrite implements WRITE. A short write that is not itself an error
// has no partial-write status in SFTP v3, so it is reported as FAILURE.
func (s *Session) handleWrite(id uint32) {
	wireHandle := s.ib.GetString()
	offset := s.ib.GetUint64()
	data := s.ib.GetData()

	fd, ok := s.table.File(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}

	n, err := hostfs.Write(fd, offset, data)
	switch {
	case err != nil:
		s.writeErr(id, err)
	case n != len(data):
		s.writeStatus(id, proto.StatusFailure)
	default:
		s.writeStatus(id, proto.StatusOK)
	}
}

// handleStat implements both STAT (follow=true) and LSTAT (follow=false).
func (s *Session) handleStat(id uint32, follow bool) {
	path := s.ib.GetString()

	var (
		st  unix.Stat_t
		err error
	)
	if follow {
		st, err = hostfs.Stat(path)
	} else {
		st, err = hostfs.Lstat(path)
	}
	if err != nil {
		s.writeErr(id, err)
		return
	}
	s.writeAttrs(id, attrs.FromStat(&st))
}

// handleFstat implements FSTAT.
func (s *Session) handleFstat(id uint32) {
	wireHandle := s.ib.GetString()
	fd, ok := s.table.File(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}
	st, err := hostfs.Fstat(fd)
	if err != nil {
		s.writeErr(id, err)
		return
	}
	s.writeAttrs(id, attrs.FromStat(&st))
}

// applySetstat applies the gated fields of a in a fixed order (PERMISSIONS,
// then ACMODTIME, then UIDGID) via the host calls passed in. The first
// failure stops the sequence; flags the client left unset are not errors.
func applySetstat(a attrs.Attrs, chmod func(uint32) error, utimes func([2]unix.Timeval) error, chown func(uint32, uint32) error) error {
	if a.Flags&proto.AttrPermissions != 0 {
		if err := chmod(attrs.ChmodMode(a)); err != nil {
			return err
		}
	}
	if a.Flags&proto.AttrACModTime != 0 {
		if err := utimes(attrs.ToUtimes(a)); err != nil {
			return err
		}
	}
	if a.Flags&proto.AttrUIDGID != 0 {
		if err := chown(a.UID, a.GID); err != nil {
			return err
		}
	}
	return nil
}

// handleSetstat implements SETSTAT.
func (s *Session) handleSetstat(id uint32) {
	path := s.ib.GetString()
	a := attrs.Decode(s.ib)

	err := applySetstat(a,
		func(mode uint32) error { return hostfs.Chmod(path, mode) },
		func(tv [2]unix.Timeval) error { return hostfs.Utimes(path, tv) },
		func(uid, gid uint32) error { return hostfs.Chown(path, uid, gid) },
	)
	s.writeErr(id, err)
}

// handleFsetstat implements FSETSTAT against a handle's fd. On a platform
// without futimes(2) the whole operation is reported as unsupported.
func (s *Session) handleFsetstat(id uint32) {
	wireHandle := s.ib.GetString()
	a := attrs.Decode(s.ib)

	if !hostfs.FutimesSupported {
		s.writeStatus(id, proto.StatusOpUnsupported)
		return
	}

	fd, ok := s.table.File(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}

	err := applySetstat(a,
		func(mode uint32) error { return hostfs.Fchmod(fd, mode) },
		func(tv [2]unix.Timeval) error { return hostfs.Futimes(fd, tv) },
		func(uid, gid uint32) error { return hostfs.Fchown(fd, uid, gid) },
	)
	s.writeErr(id, err)
}

// handleOpendir implements OPENDIR.
func (s *Session) handleOpendir(id uint32) {
	path := s.ib.GetString()
	dir, err := hostfs.OpenDir(path)
	if err != nil {
		s.writeErr(id, err)
		return
	}
	wireHandle, ok := s.table.AllocDir(dir)
	if !ok {
		_ = dir.Close()
		s.writeStatus(id, proto.StatusFailure)
		return
	}
	s.writeHandle(id, wireHandle)
}

// handleReaddir implements READDIR's two-phase NAME/EOF protocol: entries
// are appended until one would not fit, at which point the iterator is
// rewound to just before that entry so the next READDIR resumes cleanly.
func (s *Session) handleReaddir(id uint32) {
	wireHandle := s.ib.GetString()
	dir, ok := s.table.DirHandle(wireHandle)
	if !ok {
		s.writeStatus(id, proto.StatusFailure)
		return
	}

	start := s.ob.Save()
	s.ob.PutByte(byte(proto.OpName))
	s.ob.PutUint32(id)
	countMark := s.ob.Save()
	s.ob.Advance(4) // reserve the NAME count field

	var count uint32
	for {
		mark := dir.Mark()
		name, ok := dir.Next()
		if !ok {
			break
		}

		st, err := hostfs.StatRelative(dir.Fd(), name)
		if err != nil {
			continue // entry vanished or is unstatable; skip it
		}

		cost := (len(name)+4)*2 + proto.MaxAttrsBytes
		if cost > s.ob.Remaining() {
			if count > 0 {
				dir.Seek(mark)
				break
			}
			continue // name too long to ever deliver; skip it
		}

		s.ob.PutString(name)
		s.ob.PutString(name) // long-name: identical to filename in this profile
		attrs.Encode(s.ob, attrs.FromStat(&st))
		count++
	}

	if count == 0 {
		s.ob.Swap(&start)
		s.writeStatus(id, proto.StatusEOF)
		return
	}

	s.ob.Swap(&countMark)
	s.ob.PutUint32(count)
	s.ob.Swap(&countMark)
}

// handleRemove implements REMOVE.
func (s *Session) handleRemove(id uint32) {
	path := s.ib.GetString()
	s.writeErr(id, hostfs.Remove(path))
}

// handleMkdir implements MKDIR. Attrs flags other than PERMISSIONS are
// ignored.
func (s *Session) handleMkdir(id uint32) {
	path := s.ib.GetString()
	a := attrs.Decode(s.ib)
	s.writeErr(id, hostfs.Mkdir(path, attrs.MkdirMode(a)))
}

// handleRmdir implements RMDIR.
func (s *Session) handleRmdir(id uint32) {
	path := s.ib.GetString()
	s.writeErr(id, hostfs.Rmdir(path))
}

// handleRealpath implements REALPATH: a NAME response with a single entry
// and empty attrs. Canonical-path resolution is available on every Go build
// target, so there is no unsupported fallback to take.
func (s *Session) handleRealpath(id uint32) {
	path := s.ib.GetString()
	resolved, err := hostfs.RealPath(path)
	if err != nil {
		s.writeErr(id, err)
		return
	}

	s.ob.PutByte(byte(proto.OpName))
	s.ob.PutUint32(id)
	s.ob.PutUint32(1)
	s.ob.PutString(resolved)
	s.ob.PutString(resolved)
	attrs.Encode(s.ob, attrs.Empty)
}

// handleRename implements RENAME.
func (s *Session) handleRename(id uint32) {
	oldpath := s.ib.GetString()
	newpath := s.ib.GetString()
	s.writeErr(id, hostfs.Rename(oldpath, newpath))
}

// handleReadlink implements READLINK: the link target is read directly into
// the reserved portion of OB, then a second copy is emitted as the
// long-name, followed by empty attrs.
func (s *Session) handleReadlink(id uint32) {
	path := s.ib.GetString()

	start := s.ob.Save()
	s.ob.PutByte(byte(proto.OpName))
	s.ob.PutUint32(id)
	s.ob.PutUint32(1) // count

	usable := (s.ob.Remaining()-proto.MaxAttrsBytes)/2 - 4
	if usable < 0 {
		usable = 0
	}

	lengthMark := s.ob.Save()
	s.ob.Advance(4) // reserve the filename length field
	linkOffset := s.ob.Pos()

	n, err := hostfs.Readlink(path, s.ob.Tail()[:usable])
	if err != nil {
		s.ob.Swap(&start)
		s.writeErr(id, err)
		return
	}
	target := string(s.ob.Raw()[linkOffset : linkOffset+n])

	s.ob.Advance(n)
	s.ob.Swap(&lengthMark)
	s.ob.PutUint32(uint32(n))
	s.ob.Swap(&lengthMark)

	s.ob.PutString(target) // long-name: second copy of the same text
	attrs.Encode(s.ob, attrs.Empty)
}

// handleSymlink implements SYMLINK. The wire order is (linkpath,
// targetpath); the host call receives (targetpath, linkpath).
func (s *Session) handleSymlink(id uint32) {
	linkpath := s.ib.GetString()
	targetpath := s.ib.GetString()
	s.writeErr(id, hostfs.Symlink(targetpath, linkpath))
}
