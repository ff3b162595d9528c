// Package binp implements a fixed-capacity binary buffer and the RFC 4251
// primitive codec (byte, uint32, uint64, string, data) the SFTP wire format
// is built from. One Buffer type carries both the read side (Get methods)
// and the write side (Put methods); a session uses two instances, one per
// direction, each backed by a single pre-allocated array whose overflow is a
// programmer error rather than a reallocation.
package binp

import "fmt"

// Buffer is a fixed-capacity byte array with a cursor. The same type backs
// both the input buffer (IB) and the output buffer (OB) of a session:
// reading consumes from pos forward while count tracks bytes remaining in
// the current payload; writing advances pos the same way while count tracks
// capacity remaining. Never touch data/pos/count directly outside this
// package; use the accessors.
type Buffer struct {
	data  []byte // full backing array, len==cap==capacity
	pos   int    // cursor: offset of the next byte to read or write
	count int    // remaining bytes (input: unconsumed payload; output: free capacity)
}

// NewBuffer wraps a pre-allocated backing array (see pool.go) as an empty
// buffer positioned at the start with zero remaining count; callers reset it
// with Reset before each use.
func NewBuffer(backing []byte) *Buffer {
	return &Buffer{data: backing}
}

// Cap reports the fixed capacity of the buffer.
func (b *Buffer) Cap() int { return len(b.data) }

// Reset repositions the cursor to the start of the backing array with n
// bytes available (the payload length for an input buffer, or the full
// capacity for an output buffer about to be filled).
func (b *Buffer) Reset(n int) {
	if n > len(b.data) {
		panic(fmt.Sprintf("binp: Reset(%d) exceeds buffer capacity %d", n, len(b.data)))
	}
	b.pos = 0
	b.count = n
}

// Remaining reports how many bytes are left to consume (input side) or how
// much free capacity is left (output side).
func (b *Buffer) Remaining() int { return b.count }

// Pos reports the current cursor offset from the start of the backing array.
func (b *Buffer) Pos() int { return b.pos }

// Raw returns the full backing array. Used by Frame I/O to read a header
// into the very start of the buffer before a payload length is known, and to
// hand the assembled output frame to the writer.
func (b *Buffer) Raw() []byte { return b.data }

// Tail returns a slice view of the unconsumed/unwritten remainder, i.e. the
// exact bytes a direct syscall (read(2), readlink(2)) should fill or a
// direct syscall should read payload bytes from. The caller must Advance by
// however many bytes it actually consumed.
func (b *Buffer) Tail() []byte {
	return b.data[b.pos : b.pos+b.count]
}

// Advance moves the cursor forward by n bytes without copying, used after a
// direct syscall has filled (output side) or the caller has otherwise
// accounted for (input side) n bytes of Tail itself. n must not exceed
// Remaining(); violating this is a programmer error, not a recoverable
// condition.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > b.count {
		panic(fmt.Sprintf("binp: Advance(%d) overflows buffer (remaining %d)", n, b.count))
	}
	b.pos += n
	b.count -= n
}

// Mark is a saved (pos, count) pair. Save/Swap together let a caller reserve
// space for a forward-referenced length or count field, write the real
// content (which advances the live cursor), then swap back and overwrite the
// placeholder. READDIR's entry count, READLINK's target length, and the
// outbound frame length header all use this.
type Mark struct {
	pos   int
	count int
}

// Save captures the buffer's current cursor position.
func (b *Buffer) Save() Mark {
	return Mark{pos: b.pos, count: b.count}
}

// Swap exchanges the buffer's live cursor with m, and updates m to hold what
// was previously live; a second Swap with the same Mark restores the
// original position.
func (b *Buffer) Swap(m *Mark) {
	b.pos, m.pos = m.pos, b.pos
	b.count, m.count = m.count, b.count
}
