// Package handles implements the fixed-capacity handle table: MaxHandles
// slots, each either free or holding a live OS resource (an open file or an
// open directory iterator), exposed to the wire as a fixed-width zero-padded
// decimal string of exactly MaxHandleDigits characters. Index 0 is reserved
// as the allocation-failure sentinel, so wire handles are 1-based.
package handles

import (
	"fmt"
	"io"

	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// Dir is the directory iterator a DIR handle owns. It must close its
// underlying file descriptor when Close is called.
type Dir interface {
	io.Closer
	// Next advances to the next directory entry, returning its name and
	// true, or ("", false) at end of stream.
	Next() (name string, ok bool)
	// Mark returns an opaque resumable position usable with Seek.
	Mark() int
	// Seek rewinds/advances to a position previously returned by Mark.
	Seek(mark int)
	// Fd returns the underlying file descriptor, used to stat entries
	// relative to the directory (fstatat) without re-joining paths.
	Fd() int
}

// Kind tags what a slot holds.
type Kind int

const (
	Free Kind = iota
	KindFile
	KindDir
)

type slot struct {
	kind Kind
	fd   int
	dir  Dir
}

// Table is a fixed-capacity handle table. The zero value is ready to use:
// all slots start Free.
type Table struct {
	slots [proto.MaxHandles]slot
}

// allocate performs linear first-fit over Free slots. Returns the 1-based
// index, or 0 if the table is full.
func (t *Table) allocate() int {
	for i := range t.slots {
		if t.slots[i].kind == Free {
			return i + 1
		}
	}
	return 0
}

// AllocFile installs an open file descriptor into a free slot and returns
// its wire handle. ok is false (and the caller retains ownership of fd) if
// the table has no free slot.
func (t *Table) AllocFile(fd int) (wireHandle string, ok bool) {
	idx := t.allocate()
	if idx == 0 {
		return "", false
	}
	t.slots[idx-1] = slot{kind: KindFile, fd: fd}
	return Encode(idx), true
}

// AllocDir installs an open directory iterator into a free slot and returns
// its wire handle.
func (t *Table) AllocDir(dir Dir) (wireHandle string, ok bool) {
	idx := t.allocate()
	if idx == 0 {
		return "", false
	}
	t.slots[idx-1] = slot{kind: KindDir, fd: dir.Fd(), dir: dir}
	return Encode(idx), true
}

// File resolves a wire handle to an open file descriptor. ok is false for
// any malformed, unknown, or wrong-kind handle.
func (t *Table) File(wireHandle string) (fd int, ok bool) {
	idx, ok := Decode(wireHandle)
	if !ok || t.slots[idx-1].kind != KindFile {
		return 0, false
	}
	return t.slots[idx-1].fd, true
}

// DirHandle resolves a wire handle to an open directory iterator. ok is
// false for any malformed, unknown, or wrong-kind handle.
func (t *Table) DirHandle(wireHandle string) (dir Dir, ok bool) {
	idx, ok := Decode(wireHandle)
	if !ok || t.slots[idx-1].kind != KindDir {
		return nil, false
	}
	return t.slots[idx-1].dir, true
}

// Any resolves a wire handle regardless of kind, for CLOSE, which must
// accept either a file or a directory handle.
func (t *Table) Any(wireHandle string) (kind Kind, fd int, dir Dir, ok bool) {
	idx, ok := Decode(wireHandle)
	if !ok {
		return Free, 0, nil, false
	}
	s := t.slots[idx-1]
	if s.kind == Free {
		return Free, 0, nil, false
	}
	return s.kind, s.fd, s.dir, true
}

// Release frees the slot for wireHandle. It does not close any OS resource:
// the caller must already have closed the fd/iterator and mapped any close
// error before releasing the slot, since the close result determines the
// STATUS code returned to the client.
func (t *Table) Release(wireHandle string) {
	idx, ok := Decode(wireHandle)
	if !ok {
		return
	}
	t.slots[idx-1] = slot{}
}

// Encode renders a 1-based slot index as the fixed-width zero-padded
// decimal wire handle clients see.
func Encode(idx int) string {
	return fmt.Sprintf("%0*d", proto.MaxHandleDigits, idx)
}

// Decode parses a wire handle string back to a 1-based slot index. It
// rejects a length other than MaxHandleDigits, non-digit content, a zero
// value, and a value exceeding MaxHandles. It does not by itself check
// liveness; callers needing liveness use File/DirHandle/Any.
func Decode(wireHandle string) (idx int, ok bool) {
	if len(wireHandle) != proto.MaxHandleDigits {
		return 0, false
	}
	n := 0
	for _, c := range wireHandle {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 || n > proto.MaxHandles {
		return 0, false
	}
	return n, true
}
