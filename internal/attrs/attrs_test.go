package attrs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/jevinskie/nih-sftpd/internal/binp"
	"github.com/jevinskie/nih-sftpd/internal/proto"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	a := Attrs{
		Flags:       proto.AttrSize | proto.AttrUIDGID | proto.AttrPermissions | proto.AttrACModTime,
		Size:        1234,
		UID:         1000,
		GID:         1000,
		Permissions: 0o100644,
		ATime:       1700000000,
		MTime:       1700000001,
	}

	buf := binp.NewBuffer(make([]byte, 64))
	buf.Reset(64)
	Encode(buf, a)
	n := 64 - buf.Remaining()

	buf.Reset(n)
	got := Decode(buf)
	require.Equal(t, a, got)
	require.Equal(t, 0, buf.Remaining())
}

func TestDecodeDiscardsExtended(t *testing.T) {
	buf := binp.NewBuffer(make([]byte, 128))
	buf.Reset(128)
	buf.PutUint32(proto.AttrExtended)
	buf.PutUint32(2)
	buf.PutString("type1")
	buf.PutString("data1")
	buf.PutString("type2")
	buf.PutString("data2")
	n := 128 - buf.Remaining()

	buf.Reset(n)
	got := Decode(buf)
	require.Equal(t, proto.AttrExtended, got.Flags)
	require.Equal(t, 0, buf.Remaining())
}

func TestFromStatSetsFullModeAndAllFlags(t *testing.T) {
	st := &unix.Stat_t{
		Size: 42,
		Uid:  500,
		Gid:  500,
		Mode: 0o040755, // directory type bits + 0755
	}
	a := FromStat(st)
	require.Equal(t, proto.AttrSize|proto.AttrUIDGID|proto.AttrPermissions|proto.AttrACModTime, a.Flags)
	require.Equal(t, uint32(0o040755), a.Permissions, "type bits must survive for clients to distinguish dirs/files/symlinks")
}

func TestOpenModeDefaultsWhenPermissionsAbsent(t *testing.T) {
	require.Equal(t, uint32(proto.DefaultFilePerm), OpenMode(Attrs{}))
	require.Equal(t, uint32(proto.DefaultDirPerm), MkdirMode(Attrs{}))
}

func TestChmodModeMasksTypeBits(t *testing.T) {
	a := Attrs{Permissions: 0o100644}
	require.Equal(t, uint32(0o644), ChmodMode(a))
}

func TestToUtimes(t *testing.T) {
	a := Attrs{ATime: 100, MTime: 200}
	tv := ToUtimes(a)
	require.Equal(t, int64(100), tv[0].Sec)
	require.Equal(t, int64(200), tv[1].Sec)
	require.Equal(t, int64(0), int64(tv[0].Usec))
}
