// Package fserr maps host errno values to the closed set of SFTP v3 status
// codes. The mapping is deliberately coarse (EBADF becomes NO_SUCH_FILE
// rather than FAILURE) and clients depend on it staying exactly as is.
// Errors are asserted down to syscall.Errno before the switch, since
// golang.org/x/sys/unix calls surface raw errno values as unix.Errno (an
// alias of syscall.Errno on every GOOS this package targets).
package fserr

import (
	"errors"
	"io"
	"syscall"

	"github.com/jevinskie/nih-sftpd/internal/proto"
)

// FromError maps err to an SFTP status code. nil maps to StatusOK and
// io.EOF maps to StatusEOF. Any error that is not a syscall.Errno and not
// nil/io.EOF falls through to StatusFailure.
func FromError(err error) proto.Status {
	if err == nil {
		return proto.StatusOK
	}
	if errors.Is(err, io.EOF) {
		return proto.StatusEOF
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return FromErrno(errno)
	}
	return proto.StatusFailure
}

// FromErrno maps a raw errno to its SFTP status code.
func FromErrno(errno syscall.Errno) proto.Status {
	switch errno {
	case 0:
		return proto.StatusOK
	case syscall.ENOENT, syscall.ENOTDIR, syscall.EBADF, syscall.ELOOP:
		return proto.StatusNoSuchFile
	case syscall.EPERM, syscall.EACCES, syscall.EFAULT:
		return proto.StatusPermissionDenied
	case syscall.ENAMETOOLONG, syscall.EINVAL:
		return proto.StatusBadMessage
	default:
		return proto.StatusFailure
	}
}
