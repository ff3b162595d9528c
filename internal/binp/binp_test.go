package binp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigEndianFidelity(t *testing.T) {
	buf := NewBuffer(make([]byte, 16))
	buf.Reset(16)
	buf.PutUint32(0x29B7F4AA)
	require.Equal(t, []byte{0x29, 0xB7, 0xF4, 0xAA}, buf.Raw()[:4])

	buf.Reset(4)
	require.Equal(t, uint32(0x29B7F4AA), buf.GetUint32())
}

func TestStringRoundTrip(t *testing.T) {
	buf := NewBuffer(make([]byte, 64))
	buf.Reset(64)
	buf.PutString("hello")
	n := 64 - buf.Remaining()

	buf.Reset(n)
	require.Equal(t, "hello", buf.GetString())
	require.Equal(t, 0, buf.Remaining())
}

func TestSaveSwapPatchesForwardLength(t *testing.T) {
	buf := NewBuffer(make([]byte, 64))
	buf.Reset(64)

	mark := buf.Save()
	buf.PutUint32(0) // placeholder

	buf.PutString("abc")
	buf.PutString("de")

	payloadStart := mark.pos + 4
	written := buf.pos - payloadStart

	buf.Swap(&mark)
	buf.PutUint32(uint32(written))
	buf.Swap(&mark)

	out := buf.Raw()[:buf.pos]
	require.Equal(t, uint32(len("abc")+4+len("de")+4), bePut(out[0:4]))
}

func bePut(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func TestAdvanceOverflowPanics(t *testing.T) {
	buf := NewBuffer(make([]byte, 4))
	buf.Reset(4)
	require.Panics(t, func() { buf.Advance(5) })
}

func TestShortPacketPanics(t *testing.T) {
	buf := NewBuffer(make([]byte, 2))
	buf.Reset(2)
	require.Panics(t, func() { buf.GetUint32() })
}
