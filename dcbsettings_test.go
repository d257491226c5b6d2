package comport

import (
	"errors"
	"testing"

	"github.com/allbin/go-comport/internal/dcb"
)

func TestDCBBaudRateRoundTrip(t *testing.T) {
	for _, b := range BaudRates {
		if b == Baud0 {
			continue
		}
		t.Run(b.String(), func(t *testing.T) {
			var d dcb.DCB
			putDCBBaudRate(&d, b)
			if d.BaudRate != uint32(b) {
				t.Errorf("native BaudRate = %d, want %d", d.BaudRate, b)
			}
			got, err := dcbBaudRate(&d)
			if err != nil {
				t.Fatalf("dcbBaudRate failed: %v", err)
			}
			if got != b {
				t.Errorf("round trip = %v, want %v", got, b)
			}
		})
	}
}

func TestDCBBaudRateUnexpected(t *testing.T) {
	tests := []uint32{0, 14400, 128000, 256000}
	for _, raw := range tests {
		d := dcb.DCB{BaudRate: raw}
		_, err := dcbBaudRate(&d)
		if !errors.Is(err, ErrUnexpectedValue) {
			t.Errorf("raw baud %d: expected ErrUnexpectedValue, got %v", raw, err)
		}
		var pe *Error
		if errors.As(err, &pe) && pe.Code != uint64(raw) {
			t.Errorf("raw baud %d: Code = %d", raw, pe.Code)
		}
	}
}

func TestDCBDataBits(t *testing.T) {
	for _, bits := range []DataBits{DataBits5, DataBits6, DataBits7, DataBits8} {
		var d dcb.DCB
		putDCBDataBits(&d, bits)
		got, err := dcbDataBits(&d)
		if err != nil || got != bits {
			t.Errorf("round trip %v = %v, %v", bits, got, err)
		}
	}

	for _, raw := range []uint8{0, 4, 9, 16} {
		d := dcb.DCB{ByteSize: raw}
		if _, err := dcbDataBits(&d); !errors.Is(err, ErrUnexpectedValue) {
			t.Errorf("ByteSize %d: expected ErrUnexpectedValue, got %v", raw, err)
		}
	}
}

func TestDCBParity(t *testing.T) {
	tests := []struct {
		parity     Parity
		native     uint8
		parityFlag uint32
	}{
		{ParityNone, dcb.NoParity, 0},
		{ParityOdd, dcb.OddParity, 1},
		{ParityEven, dcb.EvenParity, 1},
		{ParityMark, dcb.MarkParity, 1},
		{ParitySpace, dcb.SpaceParity, 1},
	}

	for _, tt := range tests {
		t.Run(tt.parity.String(), func(t *testing.T) {
			d := dcb.DCB{Flags: 0x00001011}
			if err := putDCBParity(&d, tt.parity); err != nil {
				t.Fatalf("putDCBParity failed: %v", err)
			}
			if d.Parity != tt.native {
				t.Errorf("native Parity = %d, want %d", d.Parity, tt.native)
			}
			if got := d.Flag(dcb.FlagParity); got != tt.parityFlag {
				t.Errorf("fParity = %d, want %d", got, tt.parityFlag)
			}
			if d.Flags&^0x2 != 0x00001011 {
				t.Errorf("unrelated flags changed: %#x", d.Flags)
			}
			got, err := dcbParity(&d)
			if err != nil || got != tt.parity {
				t.Errorf("round trip = %v, %v; want %v", got, err, tt.parity)
			}
		})
	}

	d := dcb.DCB{Parity: 5}
	if _, err := dcbParity(&d); !errors.Is(err, ErrUnexpectedValue) {
		t.Errorf("Parity 5: expected ErrUnexpectedValue, got %v", err)
	}
	if err := putDCBParity(&d, Parity(9)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Parity(9): expected ErrUnsupported, got %v", err)
	}
}

func TestDCBStopBits(t *testing.T) {
	tests := []struct {
		stopBits StopBits
		native   uint8
	}{
		{StopBits1, dcb.OneStopBit},
		{StopBits1Half, dcb.One5StopBits},
		{StopBits2, dcb.TwoStopBits},
	}

	for _, tt := range tests {
		var d dcb.DCB
		if err := putDCBStopBits(&d, tt.stopBits); err != nil {
			t.Fatalf("putDCBStopBits(%v) failed: %v", tt.stopBits, err)
		}
		if d.StopBits != tt.native {
			t.Errorf("native StopBits = %d, want %d", d.StopBits, tt.native)
		}
		got, err := dcbStopBitsOf(&d)
		if err != nil || got != tt.stopBits {
			t.Errorf("round trip = %v, %v; want %v", got, err, tt.stopBits)
		}
	}

	d := dcb.DCB{StopBits: 3}
	if _, err := dcbStopBitsOf(&d); !errors.Is(err, ErrUnexpectedValue) {
		t.Errorf("StopBits 3: expected ErrUnexpectedValue, got %v", err)
	}
}
