package comport

import "github.com/allbin/go-comport/internal/dcb"

// Translation between the portable settings and the Windows control block.
// Kept free of build tags so the mapping is tested on every platform.

func windowsBaudRate(b BaudRate) bool {
	return b.Valid() && b != Baud0
}

func putDCBBaudRate(d *dcb.DCB, b BaudRate) {
	d.BaudRate = uint32(b)
}

func dcbBaudRate(d *dcb.DCB) (BaudRate, error) {
	b := BaudRate(d.BaudRate)
	if !windowsBaudRate(b) {
		return 0, kindError(ErrUnexpectedValue, uint64(d.BaudRate), codeError{"baud rate", uint64(d.BaudRate)})
	}
	return b, nil
}

func putDCBDataBits(d *dcb.DCB, bits DataBits) {
	d.ByteSize = uint8(bits)
}

func dcbDataBits(d *dcb.DCB) (DataBits, error) {
	bits := DataBits(d.ByteSize)
	if !bits.Valid() {
		return 0, kindError(ErrUnexpectedValue, uint64(d.ByteSize), codeError{"byte size", uint64(d.ByteSize)})
	}
	return bits, nil
}

var dcbParities = map[Parity]uint8{
	ParityNone:  dcb.NoParity,
	ParityOdd:   dcb.OddParity,
	ParityEven:  dcb.EvenParity,
	ParityMark:  dcb.MarkParity,
	ParitySpace: dcb.SpaceParity,
}

// putDCBParity also sets fParity so the driver checks parity on input
// whenever a parity bit is in use.
func putDCBParity(d *dcb.DCB, p Parity) error {
	v, ok := dcbParities[p]
	if !ok {
		return kindError(ErrUnsupported, uint64(p), nil)
	}
	d.Parity = v
	d.SetBool(dcb.FlagParity, p != ParityNone)
	return nil
}

func dcbParity(d *dcb.DCB) (Parity, error) {
	for p, v := range dcbParities {
		if v == d.Parity {
			return p, nil
		}
	}
	return 0, kindError(ErrUnexpectedValue, uint64(d.Parity), codeError{"parity", uint64(d.Parity)})
}

var dcbStopBits = map[StopBits]uint8{
	StopBits1:     dcb.OneStopBit,
	StopBits1Half: dcb.One5StopBits,
	StopBits2:     dcb.TwoStopBits,
}

func putDCBStopBits(d *dcb.DCB, sb StopBits) error {
	v, ok := dcbStopBits[sb]
	if !ok {
		return kindError(ErrUnsupported, uint64(sb), nil)
	}
	d.StopBits = v
	return nil
}

func dcbStopBitsOf(d *dcb.DCB) (StopBits, error) {
	for sb, v := range dcbStopBits {
		if v == d.StopBits {
			return sb, nil
		}
	}
	return 0, kindError(ErrUnexpectedValue, uint64(d.StopBits), codeError{"stop bits", uint64(d.StopBits)})
}
