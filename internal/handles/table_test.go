package handles

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jevinskie/nih-sftpd/internal/proto"
)

type fakeDir struct {
	fd int
}

func (f *fakeDir) Close() error         { return nil }
func (f *fakeDir) Next() (string, bool) { return "", false }
func (f *fakeDir) Mark() int            { return 0 }
func (f *fakeDir) Seek(int)             {}
func (f *fakeDir) Fd() int              { return f.fd }

func TestEncodeDecodeWireWidth(t *testing.T) {
	h := Encode(1)
	require.Len(t, h, proto.MaxHandleDigits)
	idx, ok := Decode(h)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestDecodeRejectsBadHandles(t *testing.T) {
	cases := []string{"", "1", "000", "0a", "00", "100"}
	for _, c := range cases {
		_, ok := Decode(c)
		require.False(t, ok, "expected %q to be rejected", c)
	}
}

func TestHandleReuseAfterRelease(t *testing.T) {
	var tbl Table
	h1, ok := tbl.AllocFile(42)
	require.True(t, ok)

	tbl.Release(h1)

	h2, ok := tbl.AllocFile(7)
	require.True(t, ok)
	require.Equal(t, h1, h2, "freed slot should be reused by the next allocation")

	fd, ok := tbl.File(h2)
	require.True(t, ok)
	require.Equal(t, 7, fd)
}

func TestAllocationExhaustion(t *testing.T) {
	var tbl Table
	for i := 0; i < proto.MaxHandles; i++ {
		_, ok := tbl.AllocFile(i)
		require.True(t, ok)
	}
	_, ok := tbl.AllocFile(999)
	require.False(t, ok, "table should report full at MaxHandles")
}

func TestWrongKindLookupFails(t *testing.T) {
	var tbl Table
	h, ok := tbl.AllocFile(3)
	require.True(t, ok)

	_, ok = tbl.DirHandle(h)
	require.False(t, ok)
}

func TestAllocDirUsesIteratorFd(t *testing.T) {
	var tbl Table
	d := &fakeDir{fd: 9}
	h, ok := tbl.AllocDir(d)
	require.True(t, ok)

	got, ok := tbl.DirHandle(h)
	require.True(t, ok)
	require.Equal(t, d, got)

	kind, fd, dir, ok := tbl.Any(h)
	require.True(t, ok)
	require.Equal(t, KindDir, kind)
	require.Equal(t, 9, fd)
	require.Equal(t, d, dir)
}
