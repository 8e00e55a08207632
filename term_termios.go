//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && !rp2040 && !rp2350

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// cbreak hands keystrokes over one at a time without echo, so a typed 1 or 2
// arrives as a single-byte command instead of a "1\n" line. Ctrl-C still
// raises SIGINT. Stdin that is not a terminal is left alone.
func cbreak(f *os.File) (restore func(), err error) {
	fd := int(f.Fd())
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return func() {}, nil
	}
	t := *old
	t.Lflag &^= unix.ICANON | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &t); err != nil {
		return func() {}, err
	}
	return func() { _ = unix.IoctlSetTermios(fd, ioctlSetTermios, old) }, nil
}
