package hostfs

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/jevinskie/nih-sftpd/internal/handles"
)

// dirIter is the directory iterator a DIR handle owns: it holds both a file
// descriptor (for fstatat-relative stats of its entries) and a cursor
// supporting advance, save and restore, the telldir/seekdir shape without a
// DIR*. The full entry-name listing is read once up front and a plain slice
// index serves as the resumable position: an index is already exactly what
// Mark/Seek need, and it avoids hand-parsing getdents(2) buffers, which
// golang.org/x/sys/unix gives no portable higher-level wrapper for. The
// underlying *os.File is kept alive for the iterator's lifetime so its fd
// survives for Fstatat calls after Readdirnames has consumed the stream.
type dirIter struct {
	f       *os.File
	fd      int
	entries []string
	pos     int
}

var _ handles.Dir = (*dirIter)(nil)

// OpenDir opens path read-only and returns a directory iterator. The fd
// stays available to stat entries relative to the directory without
// re-joining paths.
func OpenDir(path string) (handles.Dir, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	names, err := f.Readdirnames(-1)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	// Readdirnames strips "." and ".." from every listing, but readdir(3)
	// reports them and clients expect to see them; splice them back in.
	entries := append([]string{".", ".."}, names...)
	return &dirIter{f: f, fd: int(f.Fd()), entries: entries}, nil
}

func (d *dirIter) Next() (string, bool) {
	if d.pos >= len(d.entries) {
		return "", false
	}
	name := d.entries[d.pos]
	d.pos++
	return name, true
}

func (d *dirIter) Mark() int    { return d.pos }
func (d *dirIter) Seek(m int)   { d.pos = m }
func (d *dirIter) Fd() int      { return d.fd }
func (d *dirIter) Close() error { return d.f.Close() }

// StatRelative stats name relative to dirFd, following symlinks.
func StatRelative(dirFd int, name string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Fstatat(dirFd, name, &st, 0)
	return st, err
}
