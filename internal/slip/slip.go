// Package slip implements the SLIP (RFC 1055) byte-stuffing framing:
// an encoder that turns a packet into a self-delimiting byte frame, and
// a streaming decoder that reassembles packets from a raw byte stream.
package slip

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// SLIP special bytes.
const (
	End    = 0xC0 // frame terminator
	Esc    = 0xDB // escape introducer
	EscEnd = 0xDC // Esc+EscEnd stands for a literal End
	EscEsc = 0xDD // Esc+EscEsc stands for a literal Esc
)

var (
	// ErrBadEscape is returned when an Esc byte is followed by anything
	// other than EscEnd or EscEsc.
	ErrBadEscape = errors.New("slip: invalid escape sequence")

	// ErrPacketTooLong is returned when a frame decodes to more bytes
	// than the caller's buffer can hold before an End is seen.
	ErrPacketTooLong = errors.New("slip: packet exceeds maximum size")
)

// MaxEncodedLen returns the worst-case encoded size of an n-byte packet:
// every byte escaped, plus the trailing End.
func MaxEncodedLen(n int) int {
	return 2*n + 1
}

// Append encodes packet into SLIP framing and appends the result to dst,
// returning the extended slice. Each End byte becomes Esc+EscEnd, each
// Esc byte becomes Esc+EscEsc, and a single End terminates the frame.
// Encoding is total: it cannot fail for any input.
func Append(dst, packet []byte) []byte {
	for _, b := range packet {
		switch b {
		case End:
			dst = append(dst, Esc, EscEnd)
		case Esc:
			dst = append(dst, Esc, EscEsc)
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, End)
}

// Encode returns the SLIP frame for packet as a fresh slice.
func Encode(packet []byte) []byte {
	return Append(make([]byte, 0, MaxEncodedLen(len(packet))), packet)
}

// Decoder reassembles packets from an unbounded SLIP byte stream. The
// only decode state carried between bytes is whether the previous byte
// was Esc; packet accumulation lives in the caller's buffer.
type Decoder struct {
	br  *bufio.Reader
	esc bool
}

// NewDecoder returns a Decoder reading from r. Reads are buffered, so r
// should not be read by anyone else while the Decoder is in use.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{br: bufio.NewReader(r)}
}

// ReadPacket blocks until one complete frame has been decoded into buf
// and returns its length. A length of zero with a nil error is an empty
// (keep-alive) frame; the caller decides whether to forward or skip it.
//
// Any I/O error from the underlying stream is returned as-is (io.EOF
// for a clean close), discarding a partially accumulated packet. An
// undefined escape sequence returns ErrBadEscape; a frame that outgrows
// buf returns ErrPacketTooLong. After any error the decoder is reset
// and must be handed a fresh stream.
func (d *Decoder) ReadPacket(buf []byte) (int, error) {
	n := 0
	for {
		c, err := d.br.ReadByte()
		if err != nil {
			d.esc = false
			return 0, err
		}

		if d.esc {
			d.esc = false
			switch c {
			case EscEnd:
				c = End
			case EscEsc:
				c = Esc
			default:
				return 0, fmt.Errorf("%w: 0xdb 0x%02x", ErrBadEscape, c)
			}
		} else {
			switch c {
			case Esc:
				d.esc = true
				continue
			case End:
				return n, nil
			}
		}

		if n == len(buf) {
			return 0, ErrPacketTooLong
		}
		buf[n] = c
		n++
	}
}
