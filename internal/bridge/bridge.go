// Package bridge contains the forwarding core: two unidirectional
// pumps moving packets between the tunnel device and the transport
// channel, and the supervisor that keeps the inbound pump alive across
// transport failures.
package bridge

import (
	"context"
	"fmt"
	"io"

	"github.com/sliptun/sliptun/internal/link"
	"github.com/sliptun/sliptun/internal/slip"
	"github.com/sliptun/sliptun/internal/transport"
	"github.com/sliptun/sliptun/internal/util"
)

// Device is the tunnel channel: frame-oriented, created once, never
// replaced.
type Device interface {
	ReadFrame(buf []byte) (int, error)
	WriteFrame(frame []byte) error
}

// DialFunc acquires a transport channel. With fatal set it makes a
// single attempt; otherwise it retries until success or ctx
// cancellation, matching transport.Opener.Open.
type DialFunc func(ctx context.Context, fatal bool) (io.ReadWriteCloser, error)

// Bridge wires one tunnel device to one transport endpoint.
type Bridge struct {
	dev    Device
	dial   DialFunc
	active transport.Active
}

// New returns a Bridge forwarding between dev and the transport
// acquired by dial.
func New(dev Device, dial DialFunc) *Bridge {
	return &Bridge{dev: dev, dial: dial}
}

// Run is the supervisor loop. The first transport acquisition is fatal
// on failure. The outbound pump is started exactly once; the inbound
// pump is restarted after every transport loss, with the handle
// replaced wholesale before each restart. Run returns nil on context
// cancellation and an error on fatal failure (initial open, tunnel
// channel death).
func (b *Bridge) Run(ctx context.Context) error {
	conn, err := b.dial(ctx, true)
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}
	b.active.Swap(conn)
	defer b.active.Close()

	outErr := make(chan error, 1)
	go func() { outErr <- b.pumpOutbound(ctx) }()

	util.LogInfo("SLIP connection up")

	for {
		inErr := make(chan error, 1)
		go func(c io.Reader) { inErr <- b.pumpInbound(c) }(conn)

		select {
		case err := <-inErr:
			if ctx.Err() != nil {
				return nil
			}
			util.LogWarning("transport lost (%v), attempting reconnect...", err)

		case err := <-outErr:
			// Tunnel channel failure has no recovery path.
			return err

		case <-ctx.Done():
			return nil
		}

		conn, err = b.dial(ctx, false)
		if err != nil {
			// Only cancellation escapes the retry loop.
			return nil
		}
		b.active.Swap(conn)
		util.Stats.AddReconnect()
		util.LogInfo("SLIP connection re-established")
	}
}

// pumpOutbound moves frames from the tunnel to the transport for the
// whole process lifetime. A transport write failure is expected while a
// reconnect is in progress: the frame is dropped and the pump keeps
// going. A tunnel read failure terminates the pump and the process.
func (b *Bridge) pumpOutbound(ctx context.Context) error {
	frame := make([]byte, link.MaxFrameSize)
	encoded := make([]byte, 0, slip.MaxEncodedLen(link.MTU))

	for {
		n, err := b.dev.ReadFrame(frame)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("tunnel read: %w", err)
		}

		packet, err := link.Payload(frame[:n])
		if err != nil {
			return fmt.Errorf("tunnel read: %w", err)
		}

		encoded = slip.Append(encoded[:0], packet)

		if _, err := b.active.Write(encoded); err != nil {
			util.Stats.AddDropped()
			util.LogDebug("transport write failed, frame dropped: %v", err)
			continue
		}

		util.Stats.AddTx(len(encoded))
		if util.Debugging() {
			util.LogDebug("TX %d bytes (packet %d)", len(encoded), len(packet))
		}
	}
}

// pumpInbound decodes packets from one transport handle and writes them
// to the tunnel until the handle fails. Its return is the normal event
// that drives reconnection; the error distinguishes a clean close from
// a decode or I/O failure but the supervisor treats them the same.
func (b *Bridge) pumpInbound(conn io.Reader) error {
	dec := slip.NewDecoder(conn)

	// The header bytes are static; decode each packet directly after them.
	frame := make([]byte, link.MaxFrameSize)
	link.PutHeader(frame)

	for {
		n, err := dec.ReadPacket(frame[link.HeaderSize:])
		if err != nil {
			return err
		}
		if n == 0 {
			// Empty keep-alive frame, nothing to forward.
			continue
		}

		if err := b.dev.WriteFrame(frame[:link.HeaderSize+n]); err != nil {
			return fmt.Errorf("tunnel write: %w", err)
		}

		util.Stats.AddRx(n)
		if util.Debugging() {
			util.LogDebug("RX %d bytes", n)
		}
	}
}
