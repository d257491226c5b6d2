package comport

import "strconv"

// BaudRate is a line speed in bits per second. Only the named constants are
// valid; use ParseBaudRate to convert an arbitrary integer.
type BaudRate int

const (
	Baud0      BaudRate = 0 // hang up (Linux only)
	Baud50     BaudRate = 50
	Baud75     BaudRate = 75
	Baud110    BaudRate = 110
	Baud134    BaudRate = 134
	Baud150    BaudRate = 150
	Baud200    BaudRate = 200
	Baud300    BaudRate = 300
	Baud600    BaudRate = 600
	Baud1200   BaudRate = 1200
	Baud1800   BaudRate = 1800
	Baud2400   BaudRate = 2400
	Baud4800   BaudRate = 4800
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
	Baud230400 BaudRate = 230400
)

// BaudRates lists every supported baud rate in ascending order.
var BaudRates = []BaudRate{
	Baud0, Baud50, Baud75, Baud110, Baud134, Baud150, Baud200, Baud300,
	Baud600, Baud1200, Baud1800, Baud2400, Baud4800, Baud9600, Baud19200,
	Baud38400, Baud57600, Baud115200, Baud230400,
}

// Int returns the rate in bits per second.
func (b BaudRate) Int() int {
	return int(b)
}

// Valid reports whether b is one of the named baud rates.
func (b BaudRate) Valid() bool {
	for _, v := range BaudRates {
		if v == b {
			return true
		}
	}
	return false
}

func (b BaudRate) String() string {
	return strconv.Itoa(int(b))
}

// ParseBaudRate converts a rate in bits per second into a BaudRate.
func ParseBaudRate(rate int) (BaudRate, error) {
	b := BaudRate(rate)
	if !b.Valid() {
		return 0, ErrInvalidConfig
	}
	return b, nil
}
