package transport

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)

// baudCodes maps the supported line rates to their termios speed codes.
var baudCodes = map[int]uint32{
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	115200: unix.B115200,
}

func applyBaud(t *unix.Termios, baud int) {
	code, ok := baudCodes[baud]
	if !ok {
		code = unix.B9600
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= code
	t.Ispeed = code
	t.Ospeed = code
}

func flushSerial(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH)
}
