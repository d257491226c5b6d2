package comport

import "strconv"

// DataBits is the number of data bits per character (the byte size).
type DataBits int

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

func (d DataBits) Int() int {
	return int(d)
}

// Valid reports whether d is between 5 and 8.
func (d DataBits) Valid() bool {
	return d >= DataBits5 && d <= DataBits8
}

func (d DataBits) String() string {
	return strconv.Itoa(int(d))
}

// ParseDataBits converts 5, 6, 7 or 8 into a DataBits value.
func ParseDataBits(bits int) (DataBits, error) {
	d := DataBits(bits)
	if !d.Valid() {
		return 0, ErrInvalidConfig
	}
	return d, nil
}
