// Package config holds the CLI configuration types.
package config

import (
	"fmt"
	"net"

	"github.com/sliptun/sliptun/internal/util"
)

// TransportKind selects how the transport byte channel is acquired.
type TransportKind string

const (
	// KindHardware opens a serial device at the configured baud rate.
	KindHardware TransportKind = "hardware"
	// KindSocketClient connects to a unix stream socket.
	KindSocketClient TransportKind = "client"
	// KindSocketServer listens on a unix stream socket and accepts one peer.
	KindSocketServer TransportKind = "server"
	// KindWebsocket dials a websocket URL carrying the SLIP stream in
	// binary messages.
	KindWebsocket TransportKind = "websocket"
)

// DefaultBaud is used when no baud rate is given or the given one is
// not in the supported set.
const DefaultBaud = 9600

// supportedBauds is the enumerated set of standard rates the serial
// opener knows how to program.
var supportedBauds = map[int]bool{
	4800:   true,
	9600:   true,
	19200:  true,
	38400:  true,
	115200: true,
}

// Config stores all parameters gathered from the command line.
type Config struct {
	Device   string        // serial device path, socket path, or websocket URL
	LocalIP  string        // local end of the point-to-point pair
	RemoteIP string        // remote end of the point-to-point pair
	Baud     int           // serial line rate; ignored for socket kinds
	Kind     TransportKind // how to acquire the transport channel
}

// ParseTransportKind maps a CLI flag value to a TransportKind. Both the
// single-letter forms (h/c/s) and the long names are accepted.
func ParseTransportKind(s string) (TransportKind, error) {
	switch s {
	case "h", "hardware":
		return KindHardware, nil
	case "c", "client":
		return KindSocketClient, nil
	case "s", "server":
		return KindSocketServer, nil
	case "ws", "websocket":
		return KindWebsocket, nil
	default:
		return "", fmt.Errorf("unknown transport kind %q (want h, c, s, or ws)", s)
	}
}

// NormalizeBaud clamps b to the supported set. Unsupported values are a
// warning, never an error: the serial line falls back to DefaultBaud.
func NormalizeBaud(b int) int {
	if supportedBauds[b] {
		return b
	}
	util.LogWarning("baud rate %d is not supported, using %d", b, DefaultBaud)
	return DefaultBaud
}

// Validate reports the first fatal configuration problem, or nil.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device path is required")
	}
	if c.LocalIP == "" || c.RemoteIP == "" {
		return fmt.Errorf("both local and remote IP addresses are required")
	}
	for _, addr := range []string{c.LocalIP, c.RemoteIP} {
		ip := net.ParseIP(addr)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("invalid IPv4 address %q", addr)
		}
	}
	switch c.Kind {
	case KindHardware, KindSocketClient, KindSocketServer, KindWebsocket:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Kind)
	}
	return nil
}
