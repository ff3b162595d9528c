//go:build linux || darwin

package hostfs

import "golang.org/x/sys/unix"

// FutimesSupported is true on build targets where futimes(fd, ...) is
// available; without it FSETSTAT cannot set times against an fd and the
// whole operation is reported as unsupported.
const FutimesSupported = true

func Futimes(fd int, tv [2]unix.Timeval) error {
	return unix.Futimes(fd, tv[:])
}
