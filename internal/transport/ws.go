package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// dialWS connects to a websocket endpoint that relays the SLIP byte
// stream in binary messages (a remote serial bridge). Message
// boundaries carry no meaning; the decoder treats the payloads as one
// continuous stream.
func dialWS(ctx context.Context, url string) (io.ReadWriteCloser, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a websocket connection to io.ReadWriteCloser.
type wsConn struct {
	conn *websocket.Conn
	r    io.Reader // current message reader, nil between messages
}

func (w *wsConn) Read(p []byte) (int, error) {
	for {
		if w.r == nil {
			_, r, err := w.conn.NextReader()
			if err != nil {
				return 0, err
			}
			w.r = r
		}

		n, err := w.r.Read(p)
		if err == io.EOF {
			// Message exhausted; continue with the next one.
			w.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}
