// Package transport acquires and owns the byte channel the SLIP stream
// runs over: a serial device, a unix stream socket (either end), or a
// websocket connection. It also provides Active, the synchronized
// holder for the handle the supervisor replaces on reconnect.
package transport

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sliptun/sliptun/internal/config"
	"github.com/sliptun/sliptun/internal/util"
)

// Reconnect backoff bounds. The first retry waits initialBackoff; each
// failure doubles the wait up to maxBackoff.
const (
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// Opener acquires transport channels for one configured endpoint. It is
// stateful only for the socket-server kind, where the listener is
// created once and reused across reconnects.
type Opener struct {
	cfg *config.Config
	srv *socketServer
}

// NewOpener returns an Opener for the given configuration. The
// configuration must already be validated.
func NewOpener(cfg *config.Config) *Opener {
	return &Opener{cfg: cfg}
}

// Open acquires a transport channel. With fatal set, a single attempt
// is made and its error returned: a failure here is a configuration
// problem. Without fatal, Open retries with bounded backoff until it
// succeeds or ctx is cancelled; per-attempt errors are only logged.
func (o *Opener) Open(ctx context.Context, fatal bool) (io.ReadWriteCloser, error) {
	if fatal {
		return o.openOnce(ctx)
	}

	backoff := initialBackoff
	for {
		rwc, err := o.openOnce(ctx)
		if err == nil {
			return rwc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		util.LogDebug("transport open failed: %v", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (o *Opener) openOnce(ctx context.Context) (io.ReadWriteCloser, error) {
	switch o.cfg.Kind {
	case config.KindHardware:
		return openSerial(o.cfg.Device, o.cfg.Baud)
	case config.KindSocketClient:
		return dialSocket(ctx, o.cfg.Device)
	case config.KindSocketServer:
		if o.srv == nil {
			srv, err := listenSocket(o.cfg.Device)
			if err != nil {
				return nil, err
			}
			o.srv = srv
		}
		return o.srv.accept(ctx)
	case config.KindWebsocket:
		return dialWS(ctx, o.cfg.Device)
	default:
		return nil, errors.New("transport: unknown kind " + string(o.cfg.Kind))
	}
}

// Close releases any long-lived resources (the server listener).
func (o *Opener) Close() error {
	if o.srv != nil {
		return o.srv.close()
	}
	return nil
}
