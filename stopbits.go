package comport

// StopBits is the number of stop bits per character.
type StopBits int

const (
	// StopBits1 represents 1 stop bit
	StopBits1 StopBits = iota
	// StopBits1Half represents 1.5 stop bits, Windows only
	StopBits1Half
	// StopBits2 represents 2 stop bits
	StopBits2
)

func (sb StopBits) Valid() bool {
	return sb >= StopBits1 && sb <= StopBits2
}

func (sb StopBits) String() string {
	switch sb {
	case StopBits1:
		return "1"
	case StopBits1Half:
		return "1.5"
	case StopBits2:
		return "2"
	default:
		return "invalid"
	}
}

// ParseStopBits accepts "1", "1.5" or "2".
func ParseStopBits(s string) (StopBits, error) {
	switch s {
	case "1":
		return StopBits1, nil
	case "1.5":
		return StopBits1Half, nil
	case "2":
		return StopBits2, nil
	default:
		return 0, ErrInvalidConfig
	}
}
