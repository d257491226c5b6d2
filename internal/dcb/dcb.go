// Package dcb describes the Windows device-control block (DCB) used by
// GetCommState and SetCommState.
//
// The layout is declared byte for byte rather than left to the Go compiler:
// the native structure packs thirteen flags into one 32-bit word and is
// followed by a run of WORD and BYTE fields. Marshal and Unmarshal convert
// between the Go struct and the exact 28-byte native image, so the layout
// can be verified on any platform.
package dcb

import (
	"encoding/binary"
	"fmt"
)

// Size is the size of the native DCB in bytes. DCBlength must hold it
// before every GetCommState and SetCommState call.
const Size = 28

// Byte offsets of each field in the native image.
const (
	offLength    = 0
	offBaudRate  = 4
	offFlags     = 8
	offReserved  = 12
	offXonLim    = 14
	offXoffLim   = 16
	offByteSize  = 18
	offParity    = 19
	offStopBits  = 20
	offXonChar   = 21
	offXoffChar  = 22
	offErrorChar = 23
	offEOFChar   = 24
	offEvtChar   = 25
	offReserved1 = 26
)

// Flag is a bit field inside DCB.Flags, described by its first bit and
// width.
type Flag struct {
	Shift uint
	Width uint
}

//	fBinary            :1
//	fParity            :1
//	fOutxCtsFlow       :1
//	fOutxDsrFlow       :1
//	fDtrControl        :2
//	fDsrSensitivity    :1
//	fTXContinueOnXoff  :1
//	fOutX              :1
//	fInX               :1
//	fErrorChar         :1
//	fNull              :1
//	fRtsControl        :2
//	fAbortOnError      :1
//	fDummy2            :17
var (
	FlagBinary           = Flag{0, 1}
	FlagParity           = Flag{1, 1}
	FlagOutxCtsFlow      = Flag{2, 1}
	FlagOutxDsrFlow      = Flag{3, 1}
	FlagDtrControl       = Flag{4, 2}
	FlagDsrSensitivity   = Flag{6, 1}
	FlagTXContinueOnXoff = Flag{7, 1}
	FlagOutX             = Flag{8, 1}
	FlagInX              = Flag{9, 1}
	FlagErrorChar        = Flag{10, 1}
	FlagNull             = Flag{11, 1}
	FlagRtsControl       = Flag{12, 2}
	FlagAbortOnError     = Flag{14, 1}
	FlagDummy2           = Flag{15, 17}
)

func (f Flag) mask() uint32 {
	return (uint32(1)<<f.Width - 1) << f.Shift
}

// Native parity values for DCB.Parity.
const (
	NoParity    = 0
	OddParity   = 1
	EvenParity  = 2
	MarkParity  = 3
	SpaceParity = 4
)

// Native stop-bit values for DCB.StopBits.
const (
	OneStopBit   = 0
	One5StopBits = 1
	TwoStopBits  = 2
)

// DCB mirrors the native DCB structure. Reserved fields are kept so that a
// get/modify/set round trip writes back exactly what the driver reported.
type DCB struct {
	Length    uint32
	BaudRate  uint32
	Flags     uint32
	Reserved  uint16
	XonLim    uint16
	XoffLim   uint16
	ByteSize  uint8
	Parity    uint8
	StopBits  uint8
	XonChar   byte
	XoffChar  byte
	ErrorChar byte
	EOFChar   byte
	EvtChar   byte
	Reserved1 uint16
}

// Flag returns the value of the bit field f.
func (d *DCB) Flag(f Flag) uint32 {
	return (d.Flags & f.mask()) >> f.Shift
}

// SetFlag stores v in the bit field f, leaving every other bit untouched.
// Bits of v beyond the field width are discarded.
func (d *DCB) SetFlag(f Flag, v uint32) {
	d.Flags = d.Flags&^f.mask() | (v<<f.Shift)&f.mask()
}

// SetBool is SetFlag for one-bit fields.
func (d *DCB) SetBool(f Flag, on bool) {
	var v uint32
	if on {
		v = 1
	}
	d.SetFlag(f, v)
}

// Marshal writes the native image of d into b, which must be Size bytes.
func (d *DCB) Marshal(b []byte) {
	_ = b[Size-1]
	le := binary.LittleEndian
	le.PutUint32(b[offLength:], d.Length)
	le.PutUint32(b[offBaudRate:], d.BaudRate)
	le.PutUint32(b[offFlags:], d.Flags)
	le.PutUint16(b[offReserved:], d.Reserved)
	le.PutUint16(b[offXonLim:], d.XonLim)
	le.PutUint16(b[offXoffLim:], d.XoffLim)
	b[offByteSize] = d.ByteSize
	b[offParity] = d.Parity
	b[offStopBits] = d.StopBits
	b[offXonChar] = d.XonChar
	b[offXoffChar] = d.XoffChar
	b[offErrorChar] = d.ErrorChar
	b[offEOFChar] = d.EOFChar
	b[offEvtChar] = d.EvtChar
	le.PutUint16(b[offReserved1:], d.Reserved1)
}

// Unmarshal fills d from the native image in b.
func (d *DCB) Unmarshal(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("dcb: image is %d bytes, want %d", len(b), Size)
	}
	le := binary.LittleEndian
	*d = DCB{
		Length:    le.Uint32(b[offLength:]),
		BaudRate:  le.Uint32(b[offBaudRate:]),
		Flags:     le.Uint32(b[offFlags:]),
		Reserved:  le.Uint16(b[offReserved:]),
		XonLim:    le.Uint16(b[offXonLim:]),
		XoffLim:   le.Uint16(b[offXoffLim:]),
		ByteSize:  b[offByteSize],
		Parity:    b[offParity],
		StopBits:  b[offStopBits],
		XonChar:   b[offXonChar],
		XoffChar:  b[offXoffChar],
		ErrorChar: b[offErrorChar],
		EOFChar:   b[offEOFChar],
		EvtChar:   b[offEvtChar],
		Reserved1: le.Uint16(b[offReserved1:]),
	}
	return nil
}
