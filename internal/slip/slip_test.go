package slip

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

// TestEncodeVectors checks the byte-stuffing rules against known frames.
func TestEncodeVectors(t *testing.T) {
	testCases := []struct {
		name   string
		packet []byte
		frame  []byte
	}{
		{"empty packet", []byte{}, []byte{End}},
		{"lone END byte", []byte{End}, []byte{Esc, EscEnd, End}},
		{"lone ESC byte", []byte{Esc}, []byte{Esc, EscEsc, End}},
		{"END in the middle", []byte{0x41, End, 0x42}, []byte{0x41, Esc, EscEnd, 0x42, End}},
		{"plain bytes untouched", []byte{0x01, 0x02, 0x03}, []byte{0x01, 0x02, 0x03, End}},
		{"EscEnd and EscEsc are not special", []byte{EscEnd, EscEsc}, []byte{EscEnd, EscEsc, End}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.packet)
			if !bytes.Equal(got, tc.frame) {
				t.Errorf("Encode(% x) = % x, want % x", tc.packet, got, tc.frame)
			}
		})
	}
}

// TestEncodeLengthBounds verifies len(packet)+1 <= len(frame) <= 2*len(packet)+1.
func TestEncodeLengthBounds(t *testing.T) {
	packets := [][]byte{
		{},
		{0x00},
		bytes.Repeat([]byte{0x41}, 1500),
		bytes.Repeat([]byte{End}, 1500),
		bytes.Repeat([]byte{Esc}, 750),
	}

	for _, p := range packets {
		frame := Encode(p)
		if len(frame) < len(p)+1 || len(frame) > MaxEncodedLen(len(p)) {
			t.Errorf("len(Encode(%d bytes)) = %d, want between %d and %d",
				len(p), len(frame), len(p)+1, MaxEncodedLen(len(p)))
		}
	}
}

// TestRoundTrip encodes and decodes a variety of packets, including the
// worst case: an MTU-sized packet made entirely of END bytes, which
// must encode to exactly 2*MTU+1 bytes.
func TestRoundTrip(t *testing.T) {
	const mtu = 1500

	mixed := make([]byte, mtu)
	for i := range mixed {
		mixed[i] = byte(i % 256)
	}

	testCases := []struct {
		name   string
		packet []byte
	}{
		{"single byte", []byte{0x7F}},
		{"escape-heavy", []byte{End, Esc, End, Esc, EscEnd, EscEsc}},
		{"all byte values", mixed},
		{"MTU of END bytes", bytes.Repeat([]byte{End}, mtu)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame := Encode(tc.packet)

			if tc.name == "MTU of END bytes" && len(frame) != 2*mtu+1 {
				t.Fatalf("worst-case frame is %d bytes, want %d", len(frame), 2*mtu+1)
			}

			dec := NewDecoder(bytes.NewReader(frame))
			buf := make([]byte, mtu)
			n, err := dec.ReadPacket(buf)
			if err != nil {
				t.Fatalf("ReadPacket failed: %v", err)
			}
			if !bytes.Equal(buf[:n], tc.packet) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", n, len(tc.packet))
			}
		})
	}
}

// TestDecoderByteAtATime feeds the decoder one byte per read and checks
// that exactly one packet comes out, intact.
func TestDecoderByteAtATime(t *testing.T) {
	stream := []byte{0x41, Esc, EscEnd, 0x42, End}
	want := []byte{0x41, End, 0x42}

	dec := NewDecoder(iotest.OneByteReader(bytes.NewReader(stream)))
	buf := make([]byte, 16)

	n, err := dec.ReadPacket(buf)
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("got % x, want % x", buf[:n], want)
	}

	// The stream is exhausted; the next read must report the close.
	if _, err := dec.ReadPacket(buf); err != io.EOF {
		t.Errorf("expected io.EOF after stream end, got %v", err)
	}
}

// TestDecoderMultiplePackets verifies packet boundaries are preserved
// across consecutive frames in one stream.
func TestDecoderMultiplePackets(t *testing.T) {
	var stream []byte
	packets := [][]byte{
		{0x01, 0x02},
		{End, Esc},
		{0xFF},
	}
	for _, p := range packets {
		stream = Append(stream, p)
	}

	dec := NewDecoder(bytes.NewReader(stream))
	buf := make([]byte, 16)
	for i, want := range packets {
		n, err := dec.ReadPacket(buf)
		if err != nil {
			t.Fatalf("packet %d: ReadPacket failed: %v", i, err)
		}
		if !bytes.Equal(buf[:n], want) {
			t.Errorf("packet %d: got % x, want % x", i, buf[:n], want)
		}
	}
}

// TestDecoderBadEscape verifies that an undefined escape sequence is a
// decode error, not a silently accepted byte.
func TestDecoderBadEscape(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{Esc, 0x01, End}))
	buf := make([]byte, 16)

	_, err := dec.ReadPacket(buf)
	if !errors.Is(err, ErrBadEscape) {
		t.Fatalf("expected ErrBadEscape, got %v", err)
	}
}

// TestDecoderEmptyFrame verifies that a lone END yields a zero-length
// packet, which the caller treats as a keep-alive and skips.
func TestDecoderEmptyFrame(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{End, End, 0x41, End}))
	buf := make([]byte, 16)

	for i := 0; i < 2; i++ {
		n, err := dec.ReadPacket(buf)
		if err != nil {
			t.Fatalf("empty frame %d: %v", i, err)
		}
		if n != 0 {
			t.Fatalf("empty frame %d: got %d bytes, want 0", i, n)
		}
	}

	n, err := dec.ReadPacket(buf)
	if err != nil || n != 1 || buf[0] != 0x41 {
		t.Fatalf("expected packet [41] after empty frames, got % x, err %v", buf[:n], err)
	}
}

// TestDecoderOversizePacket verifies a frame that outgrows the buffer
// fails instead of overrunning.
func TestDecoderOversizePacket(t *testing.T) {
	frame := Encode(bytes.Repeat([]byte{0x41}, 32))
	dec := NewDecoder(bytes.NewReader(frame))
	buf := make([]byte, 16)

	_, err := dec.ReadPacket(buf)
	if !errors.Is(err, ErrPacketTooLong) {
		t.Fatalf("expected ErrPacketTooLong, got %v", err)
	}
}

// TestDecoderMidFrameClose verifies an EOF mid-frame discards the
// partial packet and surfaces the close.
func TestDecoderMidFrameClose(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{0x41, 0x42})) // no terminating END
	buf := make([]byte, 16)

	n, err := dec.ReadPacket(buf)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if n != 0 {
		t.Errorf("partial packet leaked: %d bytes", n)
	}
}
