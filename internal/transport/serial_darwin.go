package transport

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA
)

// Darwin speed_t values are the literal rates, so no code table is
// needed; unsupported rates have already been normalized away.
func applyBaud(t *unix.Termios, baud int) {
	t.Ispeed = uint64(baud)
	t.Ospeed = uint64(baud)
}

func flushSerial(fd int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, unix.FREAD|unix.FWRITE)
}
