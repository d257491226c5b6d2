package comport

import "time"

// nativePort is the operating-system half of a Port. Exactly one
// implementation is compiled in per platform and none of its types cross
// into the public API. Setters perform a fresh read-modify-write of the
// native settings; getters always query the OS.
type nativePort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Close() error

	BaudRate() (BaudRate, error)
	SetBaudRate(BaudRate) error
	DataBits() (DataBits, error)
	SetDataBits(DataBits) error
	Parity() (Parity, error)
	SetParity(Parity) error
	StopBits() (StopBits, error)
	SetStopBits(StopBits) error
	SetReadTimeout(time.Duration) error
}

// capabilities lists what the compiled-in native layer can represent.
type capabilities struct {
	baudRate func(BaudRate) bool
	parity   func(Parity) bool
	stopBits func(StopBits) bool

	// defaultLine makes Open apply DefaultConfig's 8N1 even when no option
	// asked for it.
	defaultLine bool
}

// allow tests to override the operating system layer
var (
	openNative = openPlatform
	platform   = platformCapabilities
)
