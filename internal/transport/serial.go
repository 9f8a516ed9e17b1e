//go:build linux || darwin

package transport

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/sliptun/sliptun/internal/util"
)

// openSerial opens the serial device and programs it for raw binary
// I/O: no echo, no canonical mode, no CR/NL translation, no software
// flow control. Pending bytes from a previous user are flushed.
func openSerial(path string, baud int) (io.ReadWriteCloser, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := flushSerial(fd); err != nil {
		// Stale bytes are survivable; the decoder resyncs on the next END.
		util.LogWarning("flush %s: %v", path, err)
	}

	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get termios %s: %w", path, err)
	}

	t.Iflag &^= unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.ONLCR | unix.OCRNL
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	applyBaud(t, baud)

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, t); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set termios %s: %w", path, err)
	}

	return os.NewFile(uintptr(fd), path), nil
}
