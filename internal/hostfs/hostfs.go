// Package hostfs maps the protocol's abstract file operations onto host
// POSIX primitives, using golang.org/x/sys/unix directly rather than the os
// package: the errno-to-status mapping and the fd-relative directory
// iteration need raw errno values and syscalls (fstatat) that os.File does
// not expose.
package hostfs

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// PflagsToUnix translates the portable OPEN pflags bitmask to host open(2)
// flags: R&W together mean O_RDWR, R alone O_RDONLY, W alone O_WRONLY;
// CREAT/TRUNC/EXCL fold in directly. APPEND is accepted but not translated
// to O_APPEND: every WRITE carries an explicit offset, so the server seeks
// rather than appends.
func PflagsToUnix(pflags uint32) int {
	var flags int
	switch {
	case pflags&FlagReadWrite == FlagReadWrite:
		flags = unix.O_RDWR
	case pflags&FlagRead != 0:
		flags = unix.O_RDONLY
	case pflags&FlagWrite != 0:
		flags = unix.O_WRONLY
	}
	if pflags&FlagCreat != 0 {
		flags |= unix.O_CREAT
	}
	if pflags&FlagTrunc != 0 {
		flags |= unix.O_TRUNC
	}
	if pflags&FlagExcl != 0 {
		flags |= unix.O_EXCL
	}
	return flags
}

// Flag bit values mirrored from internal/proto to keep this package free of
// an import-cycle-prone dependency on the wire-constant package's full
// surface; values are the same SSH_FXF_* bits.
const (
	FlagRead      = 0x00000001
	FlagWrite     = 0x00000002
	FlagAppend    = 0x00000004
	FlagCreat     = 0x00000008
	FlagTrunc     = 0x00000010
	FlagExcl      = 0x00000020
	FlagReadWrite = FlagRead | FlagWrite
)

// Open opens path with the given pflags (already host-translated flags) and
// mode, returning a raw file descriptor.
func Open(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, flags, mode)
}

// Close closes a file descriptor previously returned by Open.
func Close(fd int) error {
	return unix.Close(fd)
}

// Read seeks fd to offset and reads into buf, returning the number of bytes
// actually read, which may be less than len(buf).
func Read(fd int, offset uint64, buf []byte) (int, error) {
	if _, err := unix.Seek(fd, int64(offset), unix.SEEK_SET); err != nil {
		return 0, err
	}
	return unix.Read(fd, buf)
}

// Write seeks fd to offset and writes data, returning the number of bytes
// actually written.
func Write(fd int, offset uint64, data []byte) (int, error) {
	if _, err := unix.Seek(fd, int64(offset), unix.SEEK_SET); err != nil {
		return 0, err
	}
	return unix.Write(fd, data)
}

// Stat follows symlinks; Lstat does not.
func Stat(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Stat(path, &st)
	return st, err
}

func Lstat(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Lstat(path, &st)
	return st, err
}

func Fstat(fd int) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Fstat(fd, &st)
	return st, err
}

func Chmod(path string, mode uint32) error {
	return unix.Chmod(path, mode)
}

func Fchmod(fd int, mode uint32) error {
	return unix.Fchmod(fd, mode)
}

func Chown(path string, uid, gid uint32) error {
	return unix.Chown(path, int(uid), int(gid))
}

func Fchown(fd int, uid, gid uint32) error {
	return unix.Fchown(fd, int(uid), int(gid))
}

func Utimes(path string, tv [2]unix.Timeval) error {
	return unix.Utimes(path, tv[:])
}

func Mkdir(path string, mode uint32) error {
	return unix.Mkdir(path, mode)
}

func Rmdir(path string) error {
	return unix.Rmdir(path)
}

// Remove removes a filesystem entry: files and symbolic links, but not
// directories. unlink(2) gives exactly remove(3)'s non-directory semantics.
func Remove(path string) error {
	return unix.Unlink(path)
}

func Rename(oldpath, newpath string) error {
	return unix.Rename(oldpath, newpath)
}

// Readlink reads a symlink's target directly into buf, returning the number
// of bytes written, so a caller can read straight into a reserved region of
// its output buffer with no intermediate allocation.
func Readlink(path string, buf []byte) (int, error) {
	return unix.Readlink(path, buf)
}

// Symlink creates linkpath as a symbolic link pointing at target, which is
// symlink(2)'s own argument order (target, then linkpath). The SFTP wire
// order is (linkpath, targetpath); callers in internal/session are
// responsible for the reordering.
func Symlink(target, linkpath string) error {
	return unix.Symlink(target, linkpath)
}

// RealPath resolves path to an absolute, canonical form: symlinks resolved,
// "." and ".." eliminated. realpath(3) is a libc convenience, not a raw
// syscall, so golang.org/x/sys/unix does not wrap it; filepath.Abs +
// filepath.EvalSymlinks compose to the same semantics.
func RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
