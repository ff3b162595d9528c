//go:build !linux && !darwin

package hostfs

import (
	"errors"

	"golang.org/x/sys/unix"
)

// FutimesSupported is false on build targets without futimes(fd, ...);
// internal/session maps this to SSH_FX_OP_UNSUPPORTED for the whole FSETSTAT
// request.
const FutimesSupported = false

var errFutimesUnsupported = errors.New("hostfs: futimes not supported on this platform")

func Futimes(fd int, tv [2]unix.Timeval) error {
	return errFutimesUnsupported
}
