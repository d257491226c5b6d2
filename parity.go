package comport

import "strings"

// Parity is the parity mode of the line.
type Parity int

const (
	// ParityNone represents no parity bit
	ParityNone Parity = iota
	// ParityOdd represents odd parity bit
	ParityOdd
	// ParityEven represents even parity bit
	ParityEven
	// ParityMark represents mark parity bit (always 1), Windows only
	ParityMark
	// ParitySpace represents space parity bit (always 0), Windows only
	ParitySpace
)

func (p Parity) Valid() bool {
	return p >= ParityNone && p <= ParitySpace
}

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	case ParityMark:
		return "mark"
	case ParitySpace:
		return "space"
	default:
		return "invalid"
	}
}

// Letter returns the single-letter form used in "8N1" style notation.
func (p Parity) Letter() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	case ParityMark:
		return "M"
	case ParitySpace:
		return "S"
	default:
		return "N"
	}
}

// ParseParity accepts the long names ("none", "odd", ...) or their first
// letter, case-insensitively.
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return ParityNone, nil
	case "odd", "o":
		return ParityOdd, nil
	case "even", "e":
		return ParityEven, nil
	case "mark", "m":
		return ParityMark, nil
	case "space", "s":
		return ParitySpace, nil
	default:
		return 0, ErrInvalidConfig
	}
}
