package binp

import "github.com/taruti/bytepool"

// NewPacketBuffer allocates a backing array of the given capacity from the
// shared bytepool and wraps it as an empty Buffer. A session makes exactly
// two of these allocations (one per direction) for the lifetime of the
// process; the pool hands out the slice without the caller sizing and
// zeroing its own array.
func NewPacketBuffer(capacity int) *Buffer {
	return NewBuffer(bytepool.Alloc(capacity))
}
