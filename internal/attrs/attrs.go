// Package attrs implements the SFTP v3 ATTRS codec and its translation to
// and from host stat records.
//
// Permissions are deliberately not reinterpreted through os.FileMode (whose
// bit layout differs from the wire's): Attrs carries the raw uint32 st_mode
// word end-to-end, because clients parse the untouched high bits of
// `permissions` to tell files, directories and symlinks apart.
package attrs

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/jevinskie/nih-sftpd/internal/binp"
	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// Attrs is the protocol's attribute record: a flags mask plus the fields it
// gates.
type Attrs struct {
	Flags        uint32
	Size         uint64
	UID, GID     uint32
	Permissions  uint32
	ATime, MTime uint32
}

// Empty is the zero-flags ATTRS record REALPATH and READLINK emit.
var Empty = Attrs{}

// Decode reads an ATTRS record from buf: the flags word, then each gated
// field in the fixed order {size, uid, gid, permissions, atime, mtime}. If
// the EXTENDED bit is set, a count-prefixed list of (string, string) pairs
// follows and is consumed and discarded.
func Decode(buf *binp.Buffer) Attrs {
	var a Attrs
	a.Flags = buf.GetUint32()
	if a.Flags&proto.AttrSize != 0 {
		a.Size = buf.GetUint64()
	}
	if a.Flags&proto.AttrUIDGID != 0 {
		a.UID = buf.GetUint32()
		a.GID = buf.GetUint32()
	}
	if a.Flags&proto.AttrPermissions != 0 {
		a.Permissions = buf.GetUint32()
	}
	if a.Flags&proto.AttrACModTime != 0 {
		a.ATime = buf.GetUint32()
		a.MTime = buf.GetUint32()
	}
	if a.Flags&proto.AttrExtended != 0 {
		count := buf.GetUint32()
		for i := uint32(0); i < count; i++ {
			buf.SkipString()
			buf.SkipString()
		}
	}
	return a
}

// Encode writes an ATTRS record mirroring Decode's field order. The server
// itself never sets EXTENDED on output.
func Encode(buf *binp.Buffer, a Attrs) {
	buf.PutUint32(a.Flags)
	if a.Flags&proto.AttrSize != 0 {
		buf.PutUint64(a.Size)
	}
	if a.Flags&proto.AttrUIDGID != 0 {
		buf.PutUint32(a.UID)
		buf.PutUint32(a.GID)
	}
	if a.Flags&proto.AttrPermissions != 0 {
		buf.PutUint32(a.Permissions)
	}
	if a.Flags&proto.AttrACModTime != 0 {
		buf.PutUint32(a.ATime)
		buf.PutUint32(a.MTime)
	}
}

// FromStat translates a host stat record to ATTRS: flags are always
// SIZE|UIDGID|PERMISSIONS|ACMODTIME, permissions carry the full st_mode
// (including file-type bits), and times are truncated to seconds.
func FromStat(st *unix.Stat_t) Attrs {
	return Attrs{
		Flags:       proto.AttrSize | proto.AttrUIDGID | proto.AttrPermissions | proto.AttrACModTime,
		Size:        uint64(st.Size),
		UID:         st.Uid,
		GID:         st.Gid,
		Permissions: uint32(st.Mode),
		ATime:       uint32(st.Atim.Sec),
		MTime:       uint32(st.Mtim.Sec),
	}
}

// ToUtimes converts the ACMODTIME fields of an ATTRS record to the two
// timeval entries utimes(2)/futimes(2) expect.
func ToUtimes(a Attrs) [2]unix.Timeval {
	return [2]unix.Timeval{
		{Sec: int64(a.ATime), Usec: 0},
		{Sec: int64(a.MTime), Usec: 0},
	}
}

// OpenMode returns the mode bits to pass to open(2) when handling OPEN:
// attrs.permissions masked to the low nine bits if PERMISSIONS was set, else
// DefaultFilePerm.
func OpenMode(a Attrs) uint32 {
	if a.Flags&proto.AttrPermissions != 0 {
		return a.Permissions & proto.PermMask
	}
	return proto.DefaultFilePerm
}

// MkdirMode returns the mode bits to pass to mkdir(2): attrs.permissions
// masked to 0o777 if PERMISSIONS was set, else DefaultDirPerm. Other attrs
// flags are ignored for MKDIR.
func MkdirMode(a Attrs) uint32 {
	if a.Flags&proto.AttrPermissions != 0 {
		return a.Permissions & proto.PermMask
	}
	return proto.DefaultDirPerm
}

// ChmodMode masks permissions to the low nine bits for chmod/fchmod; type
// bits supplied by a client are never written to the host.
func ChmodMode(a Attrs) uint32 {
	return a.Permissions & proto.PermMask
}

// Time returns the MTime field as a time.Time, for callers that want a
// richer type than the raw wire uint32 (e.g. logging).
func (a Attrs) Time() time.Time {
	return time.Unix(int64(a.MTime), 0)
}
