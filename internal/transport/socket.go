package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/sliptun/sliptun/internal/util"
)

// dialSocket connects to a unix stream socket as a client.
func dialSocket(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	return conn, nil
}

// socketServer owns a unix-socket listener. The listener is created
// once and survives reconnects; each accept yields the single peer for
// the current connection epoch.
type socketServer struct {
	path string
	ln   net.Listener
}

// listenSocket binds and listens on path, removing a stale socket file
// first. The socket is made world-writable so a non-root peer can
// connect.
func listenSocket(path string) (*socketServer, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket %s: %w", path, err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	if err := os.Chmod(path, 0o777); err != nil {
		util.LogWarning("chmod %s: %v", path, err)
	}

	return &socketServer{path: path, ln: ln}, nil
}

// accept blocks until a client connects or ctx is cancelled.
func (s *socketServer) accept(ctx context.Context) (io.ReadWriteCloser, error) {
	util.LogInfo("Socket opened, waiting for client connect...")

	// Unblock the accept if the process is shutting down.
	stop := context.AfterFunc(ctx, func() { s.ln.Close() })
	defer stop()

	conn, err := s.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept on %s: %w", s.path, err)
	}
	return conn, nil
}

func (s *socketServer) close() error {
	return s.ln.Close()
}
