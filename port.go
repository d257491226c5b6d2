package comport

import (
	"errors"
	"io"
	"runtime"
	"time"

	"go.uber.org/atomic"
)

// Port is an open serial device. It is created by Open and is valid until
// Close. Settings are never cached: getters query the operating system and
// setters rewrite the native settings immediately.
//
// A Port does no internal locking. It may be handed between goroutines, but
// callers must serialize configuration calls themselves.
type Port interface {
	io.ReadWriteCloser

	// Name returns the device name the port was opened with.
	Name() string

	// Flush blocks until the OS has transmitted all written output. It never
	// re-issues writes.
	Flush() error

	BaudRate() (BaudRate, error)
	SetBaudRate(BaudRate) error
	DataBits() (DataBits, error)
	SetDataBits(DataBits) error
	Parity() (Parity, error)
	SetParity(Parity) error
	StopBits() (StopBits, error)
	SetStopBits(StopBits) error

	// Stats returns a snapshot of the I/O counters.
	Stats() Stats
}

// port is the concrete implementation of the Port interface
type port struct {
	name   string
	native nativePort
	closed atomic.Bool
	stats  counters
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

// Open acquires exclusive access to the named device and sets its baud rate.
// Names are passed to the OS as-is: "COM8" on Windows, "/dev/ttyUSB0" on Linux.
//
// On Linux the line is also put in raw mode and set to 8N1 unless options say
// otherwise. On Windows only the settings named by options are changed.
// If any configuration step fails, the device is closed again before Open
// returns.
func Open(name string, baud BaudRate, opts ...Option) (Port, error) {
	return open(name, &baud, opts)
}

// OpenCurrent is Open without a baud rate: the device keeps the baud rate,
// data bits, parity and stop bits it already has unless options name them.
// On Linux the line is still put in raw mode.
func OpenCurrent(name string, opts ...Option) (Port, error) {
	return open(name, nil, append([]Option{WithCurrentLine()}, opts...))
}

func open(name string, baud *BaudRate, opts []Option) (Port, error) {
	// Apply default configuration
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, annotate("open", name, optionError(err))
		}
	}
	if err := checkSupported(baud, config); err != nil {
		return nil, annotate("open", name, err)
	}

	native, err := openNative(name)
	if err != nil {
		logger.Debug().Err(err).Str("port", name).Msg("open failed")
		return nil, annotate("open", name, err)
	}

	if err := configure(name, native, baud, config); err != nil {
		// Never hand out, or leak, a partially configured handle.
		if cerr := native.Close(); cerr != nil {
			err = errors.Join(err, annotate("close", name, kindError(ErrCloseFailed, 0, cerr)))
		}
		logger.Debug().Err(err).Str("port", name).Msg("configuration failed, handle released")
		return nil, err
	}

	p := &port{name: name, native: native}
	p.stats.openedAt = time.Now()
	runtime.SetFinalizer(p, (*port).finalize)

	event := logger.Debug().Str("port", name)
	if baud != nil {
		event = event.Stringer("baud", *baud)
	}
	event.Dur("read_timeout", config.ReadTimeout).Msg("port opened")
	return p, nil
}

// checkSupported rejects requests the native layer cannot represent before
// anything is opened. A nil baud leaves the rate as it is.
func checkSupported(baud *BaudRate, config Config) error {
	caps := platform()
	switch {
	case baud != nil && !baud.Valid():
		return kindError(ErrInvalidConfig, 0, nil)
	case baud != nil && !caps.baudRate(*baud):
		return kindError(ErrUnsupported, uint64(*baud), nil)
	case config.has(settingParity) && !caps.parity(config.Parity):
		return kindError(ErrUnsupported, uint64(config.Parity), nil)
	case config.has(settingStopBits) && !caps.stopBits(config.StopBits):
		return kindError(ErrUnsupported, uint64(config.StopBits), nil)
	}
	return nil
}

// configure applies the open-time settings in order: baud rate, line
// settings, read timeout.
func configure(name string, n nativePort, baud *BaudRate, config Config) error {
	if baud != nil {
		if err := n.SetBaudRate(*baud); err != nil {
			return annotate("set baud rate", name, err)
		}
	}

	line := platform().defaultLine && !config.keepLine
	if line || config.has(settingDataBits) {
		if err := n.SetDataBits(config.DataBits); err != nil {
			return annotate("set data bits", name, err)
		}
	}
	if line || config.has(settingParity) {
		if err := n.SetParity(config.Parity); err != nil {
			return annotate("set parity", name, err)
		}
	}
	if line || config.has(settingStopBits) {
		if err := n.SetStopBits(config.StopBits); err != nil {
			return annotate("set stop bits", name, err)
		}
	}

	if err := n.SetReadTimeout(config.ReadTimeout); err != nil {
		return annotate("set read timeout", name, err)
	}
	return nil
}

func (p *port) Name() string {
	return p.name
}

// fail returns an error of the given kind for op on this port.
func (p *port) fail(op string, kind error) error {
	return &Error{Op: op, Port: p.name, Kind: kind}
}

// Read reads data from the serial port. It blocks according to the read
// timeout given to Open and may return fewer bytes than len(buf), or none.
func (p *port) Read(buf []byte) (int, error) {
	if p.closed.Load() {
		return 0, p.fail("read", ErrPortClosed)
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := p.native.Read(buf)
	p.stats.recordRead(n, err)
	if err != nil {
		return n, annotate("read", p.name, err)
	}
	return n, nil
}

// Write writes data to the serial port and returns the number of bytes the
// OS accepted, which may be less than len(data).
func (p *port) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, p.fail("write", ErrPortClosed)
	}
	if len(data) == 0 {
		return 0, nil
	}

	n, err := p.native.Write(data)
	p.stats.recordWrite(n, err)
	if err != nil {
		return n, annotate("write", p.name, err)
	}
	return n, nil
}

func (p *port) Flush() error {
	if p.closed.Load() {
		return p.fail("flush", ErrPortClosed)
	}
	return annotate("flush", p.name, p.native.Flush())
}

func (p *port) BaudRate() (BaudRate, error) {
	if p.closed.Load() {
		return 0, p.fail("get baud rate", ErrPortClosed)
	}
	b, err := p.native.BaudRate()
	return b, annotate("get baud rate", p.name, err)
}

func (p *port) SetBaudRate(baud BaudRate) error {
	const op = "set baud rate"
	switch {
	case p.closed.Load():
		return p.fail(op, ErrPortClosed)
	case !baud.Valid():
		return p.fail(op, ErrInvalidConfig)
	case !platform().baudRate(baud):
		return p.fail(op, ErrUnsupported)
	}
	return annotate(op, p.name, p.native.SetBaudRate(baud))
}

func (p *port) DataBits() (DataBits, error) {
	if p.closed.Load() {
		return 0, p.fail("get data bits", ErrPortClosed)
	}
	d, err := p.native.DataBits()
	return d, annotate("get data bits", p.name, err)
}

func (p *port) SetDataBits(bits DataBits) error {
	const op = "set data bits"
	switch {
	case p.closed.Load():
		return p.fail(op, ErrPortClosed)
	case !bits.Valid():
		return p.fail(op, ErrInvalidConfig)
	}
	return annotate(op, p.name, p.native.SetDataBits(bits))
}

func (p *port) Parity() (Parity, error) {
	if p.closed.Load() {
		return 0, p.fail("get parity", ErrPortClosed)
	}
	pa, err := p.native.Parity()
	return pa, annotate("get parity", p.name, err)
}

func (p *port) SetParity(parity Parity) error {
	const op = "set parity"
	switch {
	case p.closed.Load():
		return p.fail(op, ErrPortClosed)
	case !parity.Valid():
		return p.fail(op, ErrInvalidConfig)
	case !platform().parity(parity):
		return p.fail(op, ErrUnsupported)
	}
	return annotate(op, p.name, p.native.SetParity(parity))
}

func (p *port) StopBits() (StopBits, error) {
	if p.closed.Load() {
		return 0, p.fail("get stop bits", ErrPortClosed)
	}
	sb, err := p.native.StopBits()
	return sb, annotate("get stop bits", p.name, err)
}

func (p *port) SetStopBits(bits StopBits) error {
	const op = "set stop bits"
	switch {
	case p.closed.Load():
		return p.fail(op, ErrPortClosed)
	case !bits.Valid():
		return p.fail(op, ErrInvalidConfig)
	case !platform().stopBits(bits):
		return p.fail(op, ErrUnsupported)
	}
	return annotate(op, p.name, p.native.SetStopBits(bits))
}

func (p *port) Stats() Stats {
	return p.stats.snapshot()
}

// Close releases the native handle. Only the first call does so; later calls
// return ErrPortClosed. If the OS refuses to close the handle, Close panics:
// the handle is in an unknown state and cannot be safely retried.
func (p *port) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return p.fail("close", ErrPortClosed)
	}
	runtime.SetFinalizer(p, nil)
	p.release()
	return nil
}

// finalize releases the handle of a port that became unreachable unclosed.
func (p *port) finalize() {
	if p.closed.CompareAndSwap(false, true) {
		logger.Warn().Str("port", p.name).Msg("port was not closed, releasing handle from finalizer")
		p.release()
	}
}

func (p *port) release() {
	if err := p.native.Close(); err != nil {
		logger.Error().Err(err).Str("port", p.name).Msg("releasing native handle failed")
		panic(&Error{Op: "close", Port: p.name, Kind: ErrCloseFailed, Err: err})
	}
	s := p.stats.snapshot()
	logger.Debug().
		Str("port", p.name).
		Int64("bytes_read", s.BytesRead).
		Int64("bytes_written", s.BytesWritten).
		Dur("uptime", time.Since(s.OpenedAt)).
		Msg("port closed")
}

// WriteAll writes data to w, continuing after short writes until every byte
// has been accepted or an error occurs.
func WriteAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}
