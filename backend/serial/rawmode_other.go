//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd
// +build !linux,!darwin,!dragonfly,!freebsd,!netbsd,!openbsd

package serial

import "os"

// setRawMode is a no-op on platforms without termios ioctls available
// through golang.org/x/sys/unix (mirrors the teacher's diskfs_other.go
// fallback for platforms lacking block-device ioctls).
func setRawMode(f *os.File) error {
	return nil
}
