package binp

import (
	"encoding/binary"
	"fmt"
)

// ErrShortPacket is panicked (and recovered by the dispatcher, see
// internal/session) when a request body is too short for the fields a
// handler tries to read from it. A short packet is a malformed-input
// condition with no defined graceful recovery; the dispatcher turns it into
// a fatal session exit.
type ErrShortPacket struct {
	Wanted, Have int
}

func (e ErrShortPacket) Error() string {
	return fmt.Sprintf("binp: short packet: wanted %d bytes, have %d", e.Wanted, e.Have)
}

func (b *Buffer) need(n int) {
	if b.count < n {
		panic(ErrShortPacket{Wanted: n, Have: b.count})
	}
}

// GetByte consumes one octet.
func (b *Buffer) GetByte() byte {
	b.need(1)
	d := b.data[b.pos]
	b.pos++
	b.count--
	return d
}

// GetUint32 consumes a big-endian uint32.
func (b *Buffer) GetUint32() uint32 {
	b.need(4)
	d := binary.BigEndian.Uint32(b.data[b.pos:])
	b.pos += 4
	b.count -= 4
	return d
}

// GetUint64 consumes a big-endian uint64.
func (b *Buffer) GetUint64() uint64 {
	b.need(8)
	d := binary.BigEndian.Uint64(b.data[b.pos:])
	b.pos += 8
	b.count -= 8
	return d
}

// GetRaw consumes and returns a copy of the next n raw bytes.
func (b *Buffer) GetRaw(n int) []byte {
	b.need(n)
	out := make([]byte, n)
	copy(out, b.data[b.pos:b.pos+n])
	b.pos += n
	b.count -= n
	return out
}

// GetString consumes an RFC 4251 "string": a uint32 length followed by that
// many bytes, returned as an owned Go string (a copy, not a view into the
// buffer), so the value stays valid after the next inbound frame overwrites
// the buffer.
func (b *Buffer) GetString() string {
	n := b.GetUint32()
	b.need(int(n))
	s := string(b.data[b.pos : b.pos+int(n)])
	b.pos += int(n)
	b.count -= int(n)
	return s
}

// GetData consumes an RFC 4251 "data" field (wire-identical to "string",
// opaque bytes) and returns a copy.
func (b *Buffer) GetData() []byte {
	n := b.GetUint32()
	return b.GetRaw(int(n))
}

// SkipString consumes and discards an RFC 4251 "string" without copying,
// used for extended-attribute pairs this server never interprets.
func (b *Buffer) SkipString() {
	n := b.GetUint32()
	b.need(int(n))
	b.pos += int(n)
	b.count -= int(n)
}
