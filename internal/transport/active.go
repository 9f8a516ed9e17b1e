package transport

import (
	"errors"
	"io"
	"sync"
)

// ErrNoTransport is returned by Active.Write before the first handle is
// installed.
var ErrNoTransport = errors.New("transport: no channel established")

// Active holds the current transport handle. The supervisor swaps in a
// new handle after each reconnect; writers go through Write, which pins
// the handle for the duration of the call, so no write ever lands on a
// handle the supervisor has already closed.
type Active struct {
	mu  sync.RWMutex
	rwc io.ReadWriteCloser
}

// Swap installs rwc as the current handle and closes the previous one,
// waiting for in-flight writes to drain first.
func (a *Active) Swap(rwc io.ReadWriteCloser) {
	a.mu.Lock()
	old := a.rwc
	a.rwc = rwc
	a.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Write writes p in full to the current handle, looping on short
// writes. The handle cannot be swapped out mid-call.
func (a *Active) Write(p []byte) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.rwc == nil {
		return 0, ErrNoTransport
	}

	written := 0
	for written < len(p) {
		n, err := a.rwc.Write(p[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Close closes the current handle, unblocking any reader on it.
func (a *Active) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rwc == nil {
		return nil
	}
	return a.rwc.Close()
}
