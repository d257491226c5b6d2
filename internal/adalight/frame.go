// Package adalight encodes LED frames for the Adalight streaming protocol
// spoken by Arduino-style LED controllers over a serial line.
//
// A frame is a six-byte header followed by one RGB triple per LED:
//
//	'A' 'd' 'a' hi(n-1) lo(n-1) hi^lo^0x55 R G B R G B ...
package adalight

import (
	"errors"
	"fmt"
)

const (
	// HeaderSize is the length of the magic word, LED count and checksum.
	HeaderSize = 6
	// PixelSize is the number of bytes per LED.
	PixelSize = 3
	// MaxLEDs is the largest count the 16-bit header field can describe.
	MaxLEDs = 1 << 16
)

var ErrLEDCount = errors.New("adalight: LED count out of range")

// Frame is one complete frame, header included, ready to be written as-is.
type Frame []byte

// NewFrame allocates a frame for n LEDs with the header filled in and every
// LED off. The header never changes as long as the LED count stays the same,
// so a Frame is meant to be reused from one update to the next.
func NewFrame(n int) (Frame, error) {
	if n < 1 || n > MaxLEDs {
		return nil, fmt.Errorf("%w: %d", ErrLEDCount, n)
	}
	f := make(Frame, HeaderSize+n*PixelSize)
	f[0], f[1], f[2] = 'A', 'd', 'a'
	f[3] = byte((n - 1) >> 8)
	f[4] = byte((n - 1) & 0xff)
	f[5] = f[3] ^ f[4] ^ 0x55
	return f, nil
}

// LEDs returns the number of LEDs the frame carries.
func (f Frame) LEDs() int {
	return (len(f) - HeaderSize) / PixelSize
}

// Set stores the color of LED i.
func (f Frame) Set(i int, r, g, b uint8) {
	off := HeaderSize + i*PixelSize
	f[off], f[off+1], f[off+2] = r, g, b
}

// Pixel returns the color of LED i.
func (f Frame) Pixel(i int) (r, g, b uint8) {
	off := HeaderSize + i*PixelSize
	return f[off], f[off+1], f[off+2]
}

// Valid reports whether the header is intact and matches the frame length.
func (f Frame) Valid() bool {
	if len(f) < HeaderSize+PixelSize || (len(f)-HeaderSize)%PixelSize != 0 {
		return false
	}
	if f[0] != 'A' || f[1] != 'd' || f[2] != 'a' || f[5] != f[3]^f[4]^0x55 {
		return false
	}
	return int(f[3])<<8|int(f[4]) == f.LEDs()-1
}
