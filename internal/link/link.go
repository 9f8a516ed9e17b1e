// Package link defines the frame format exchanged with the tunnel
// device: an IP packet prefixed by the 4-byte null/loopback header
// whose last byte is the address family.
package link

import (
	"errors"
	"fmt"
)

const (
	// MTU is the largest packet this bridge forwards.
	MTU = 1500

	// HeaderSize is the length of the null/loopback header.
	HeaderSize = 4

	// MaxFrameSize is the largest frame the tunnel channel carries.
	MaxFrameSize = MTU + HeaderSize

	// afInet is the AF_INET address-family code carried in the header.
	// Only IPv4 is supported; one local/remote pair per instance.
	afInet = 2
)

// ErrShortFrame is returned for a frame shorter than the header. The
// tunnel channel yields whole frames per read, so this indicates a
// broken channel rather than a protocol error.
var ErrShortFrame = errors.New("link: frame shorter than header")

// PutHeader writes the null/loopback header into the first HeaderSize
// bytes of b.
func PutHeader(b []byte) {
	b[0], b[1], b[2], b[3] = 0, 0, 0, afInet
}

// Wrap prepends the header to packet, returning a fresh link frame.
func Wrap(packet []byte) []byte {
	frame := make([]byte, HeaderSize+len(packet))
	PutHeader(frame)
	copy(frame[HeaderSize:], packet)
	return frame
}

// Payload strips the header from frame and returns the packet. The
// returned slice aliases frame.
func Payload(frame []byte) ([]byte, error) {
	if len(frame) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	return frame[HeaderSize:], nil
}
