// Package proto carries the wire-level constants for SFTP v3
// (draft-ietf-secsh-filexfer-02): opcodes, status codes, attribute flags and
// portable open flags. Nothing here touches the network or the filesystem;
// it is pure vocabulary shared by internal/attrs, internal/fserr,
// internal/handles and internal/session.
package proto

// Opcode identifies an SFTP request or response type. Request opcodes are
// 1-20; response opcodes start at 101 per draft-02 (values 21-100 and
// 200-255 are reserved for later drafts/vendor extensions and are never
// produced or accepted by this implementation).
type Opcode byte

const (
	OpInit     Opcode = 1
	OpVersion  Opcode = 2
	OpOpen     Opcode = 3
	OpClose    Opcode = 4
	OpRead     Opcode = 5
	OpWrite    Opcode = 6
	OpLstat    Opcode = 7
	OpFstat    Opcode = 8
	OpSetstat  Opcode = 9
	OpFsetstat Opcode = 10
	OpOpendir  Opcode = 11
	OpReaddir  Opcode = 12
	OpRemove   Opcode = 13
	OpMkdir    Opcode = 14
	OpRmdir    Opcode = 15
	OpRealpath Opcode = 16
	OpStat     Opcode = 17
	OpRename   Opcode = 18
	OpReadlink Opcode = 19
	OpSymlink  Opcode = 20

	OpStatus Opcode = 101
	OpHandle Opcode = 102
	OpData   Opcode = 103
	OpName   Opcode = 104
	OpAttrs  Opcode = 105
)

// Status is the closed set of SFTP v3 status codes a server may emit.
type Status uint32

const (
	StatusOK               Status = 0
	StatusEOF              Status = 1
	StatusNoSuchFile       Status = 2
	StatusPermissionDenied Status = 3
	StatusFailure          Status = 4
	StatusBadMessage       Status = 5
	StatusNoConnection     Status = 6 // never emitted by this server
	StatusConnectionLost   Status = 7 // never emitted by this server
	StatusOpUnsupported    Status = 8
)

// Message returns the canned human-readable string for a status code.
// Unknown codes map to "Unknown error".
func (s Status) Message() string {
	switch s {
	case StatusOK:
		return "Success"
	case StatusEOF:
		return "End of file"
	case StatusNoSuchFile:
		return "No such file"
	case StatusPermissionDenied:
		return "Permission denied"
	case StatusFailure:
		return "Failure"
	case StatusBadMessage:
		return "Bad message"
	case StatusOpUnsupported:
		return "Operation unsupported"
	default:
		return "Unknown error"
	}
}

// Lang is the constant language tag attached to every STATUS response.
const Lang = "en"

// ProtocolVersion is the only version this server negotiates.
const ProtocolVersion = 3

// Attribute flag bits gating the fields of an ATTRS record
// (SSH_FILEXFER_ATTR_*).
const (
	AttrSize        uint32 = 0x00000001
	AttrUIDGID      uint32 = 0x00000002
	AttrPermissions uint32 = 0x00000004
	AttrACModTime   uint32 = 0x00000008
	AttrExtended    uint32 = 0x80000000
)

// Portable open flags carried in an OPEN request's pflags field (SSH_FXF_*).
const (
	FlagRead   uint32 = 0x00000001
	FlagWrite  uint32 = 0x00000002
	FlagAppend uint32 = 0x00000004
	FlagCreat  uint32 = 0x00000008
	FlagTrunc  uint32 = 0x00000010
	FlagExcl   uint32 = 0x00000020
)

// Implementation limits.
const (
	// MaxPacket is the maximum frame payload this server will accept or
	// produce; the SFTP draft requires servers to support at least this much.
	MaxPacket = 34000

	// MaxAttrsBytes bounds the wire size of a fully populated ATTRS record
	// and is used by handlers (READDIR, READLINK) that must reserve tail
	// space before they know the exact payload length.
	MaxAttrsBytes = 32

	// PermMask isolates the low nine permission bits; type bits supplied by
	// a client in OPEN/MKDIR/SETSTAT attrs are never written to the host.
	PermMask = 0o777

	// MaxHandles bounds the handle table; MaxHandleDigits is the fixed wire
	// width of a handle's decimal rendering and must be wide enough to print
	// MaxHandles.
	MaxHandles      = 99
	MaxHandleDigits = 2

	// DefaultFilePerm / DefaultDirPerm are used when a client's attrs omit
	// SSH_FILEXFER_ATTR_PERMISSIONS on OPEN/MKDIR respectively.
	DefaultFilePerm = 0o666
	DefaultDirPerm  = 0o777
)
