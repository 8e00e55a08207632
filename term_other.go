//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !rp2040 && !rp2350

package main

import "os"

// Without termios support typed lines arrive as bursts; drive the demo with
// ledterm or a pipe that sends one byte at a time.
func cbreak(*os.File) (func(), error) { return func() {}, nil }
