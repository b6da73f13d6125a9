//go:build linux
// +build linux

package serial

import (
	"os"

	"golang.org/x/sys/unix"
)

// setRawMode puts a tty into raw, non-canonical mode via termios ioctls, the
// same way the teacher's disk_unix.go reaches past the stdlib for
// device-specific ioctls (BLKRRPART there, TCGETS/TCSETS here) rather than
// reimplementing the syscall plumbing by hand.
func setRawMode(f *os.File) error {
	fd := int(f.Fd())

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		// not a tty (e.g. a plain file or a pipe used in tests) — nothing to do
		return nil
	}

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}
