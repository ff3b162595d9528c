package binp

import "encoding/binary"

// PutByte appends a single octet (RFC 4251 "byte").
func (b *Buffer) PutByte(d byte) {
	if b.count < 1 {
		panic("binp: PutByte overflows output buffer")
	}
	b.data[b.pos] = d
	b.pos++
	b.count--
}

// PutUint32 appends a big-endian uint32 (RFC 4251 "uint32").
func (b *Buffer) PutUint32(d uint32) {
	if b.count < 4 {
		panic("binp: PutUint32 overflows output buffer")
	}
	binary.BigEndian.PutUint32(b.data[b.pos:], d)
	b.pos += 4
	b.count -= 4
}

// PutUint64 appends a big-endian uint64 (RFC 4251 "uint64").
func (b *Buffer) PutUint64(d uint64) {
	if b.count < 8 {
		panic("binp: PutUint64 overflows output buffer")
	}
	binary.BigEndian.PutUint64(b.data[b.pos:], d)
	b.pos += 8
	b.count -= 8
}

// PutRaw appends d with no length prefix.
func (b *Buffer) PutRaw(d []byte) {
	if b.count < len(d) {
		panic("binp: PutRaw overflows output buffer")
	}
	copy(b.data[b.pos:], d)
	b.pos += len(d)
	b.count -= len(d)
}

// PutString appends d as an RFC 4251 "string": a uint32 length followed by
// the raw bytes, with no NUL terminator on the wire. d may be arbitrary
// binary content, not just text.
func (b *Buffer) PutString(d string) {
	b.PutUint32(uint32(len(d)))
	b.PutRaw([]byte(d))
}

// PutData is a synonym for PutString used at call sites carrying the
// protocol's "data" type (wire-identical to "string", conceptually opaque
// bytes rather than text).
func (b *Buffer) PutData(d []byte) {
	b.PutUint32(uint32(len(d)))
	b.PutRaw(d)
}
