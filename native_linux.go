//go:build linux

package comport

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// linuxPort drives a tty through termios. Every setter re-reads the whole
// termios structure before changing it.
type linuxPort struct {
	fd int
}

func platformCapabilities() capabilities {
	return capabilities{
		baudRate:    BaudRate.Valid,
		parity:      linuxParity,
		stopBits:    linuxStopBits,
		defaultLine: true,
	}
}

func linuxParity(p Parity) bool {
	return p == ParityNone || p == ParityOdd || p == ParityEven
}

func linuxStopBits(sb StopBits) bool {
	return sb == StopBits1 || sb == StopBits2
}

// openPlatform opens the tty without becoming its controlling terminal,
// takes the kernel exclusive-open flag and an advisory lock, puts the line
// in raw mode and switches the descriptor back to blocking I/O.
func openPlatform(name string) (nativePort, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	p := &linuxPort{fd: fd}
	if err := p.acquire(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return p, nil
}

func (p *linuxPort) acquire() error {
	if err := unix.IoctlSetInt(p.fd, unix.TIOCEXCL, 0); err != nil {
		return classifyOpenError(err)
	}
	if err := unix.Flock(p.fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return classifyOpenError(err)
	}
	if err := p.modify(func(t *unix.Termios) error {
		makeRaw(t)
		return nil
	}); err != nil {
		return err
	}
	if err := unix.SetNonblock(p.fd, false); err != nil {
		return kindError(ErrOpenFailed, errnoCode(err), err)
	}
	return nil
}

func errnoCode(err error) uint64 {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return uint64(errno)
	}
	return 0
}

// classifyOpenError maps a failure while acquiring the device onto the error
// kinds. EACCES is a permission problem, not contention, and stays OpenFailed.
func classifyOpenError(err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return kindError(ErrOpenFailed, 0, err)
	}
	switch errno {
	case unix.ENOENT, unix.ENXIO, unix.ENODEV:
		return kindError(ErrNotFound, uint64(errno), err)
	case unix.EBUSY, unix.EWOULDBLOCK:
		return kindError(ErrAlreadyInUse, uint64(errno), err)
	default:
		return kindError(ErrOpenFailed, uint64(errno), err)
	}
}

// classifyIOError maps a read or write failure onto the error kinds.
func classifyIOError(err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return kindError(ErrIOFailed, 0, err)
	}
	switch errno {
	case unix.EFAULT:
		return kindError(ErrInvalidBuffer, uint64(errno), err)
	case unix.ENOMEM, unix.ENOBUFS:
		return kindError(ErrResourceExhausted, uint64(errno), err)
	case unix.EINTR:
		return kindError(ErrInterrupted, uint64(errno), err)
	default:
		return kindError(ErrIOFailed, uint64(errno), codeError{"errno", uint64(errno)})
	}
}

// modify performs one get -> change -> set round trip of the termios
// structure. IoctlGetTermios fills a freshly zeroed struct each time.
func (p *linuxPort) modify(change func(*unix.Termios) error) error {
	t, err := p.termios()
	if err != nil {
		return err
	}
	if err := change(t); err != nil {
		return err
	}
	if err := unix.IoctlSetTermios(p.fd, unix.TCSETS, t); err != nil {
		return kindError(ErrConfigurationFailed, errnoCode(err), err)
	}
	return nil
}

func (p *linuxPort) termios() (*unix.Termios, error) {
	t, err := unix.IoctlGetTermios(p.fd, unix.TCGETS)
	if err != nil {
		return nil, kindError(ErrConfigurationFailed, errnoCode(err), err)
	}
	return t, nil
}

func (p *linuxPort) Read(b []byte) (int, error) {
	n, err := unix.Read(p.fd, b)
	if err != nil {
		return 0, classifyIOError(err)
	}
	return n, nil
}

func (p *linuxPort) Write(b []byte) (int, error) {
	n, err := unix.Write(p.fd, b)
	if err != nil {
		return 0, classifyIOError(err)
	}
	return n, nil
}

// Flush waits for the output queue to drain (tcdrain).
func (p *linuxPort) Flush() error {
	if err := unix.IoctlSetInt(p.fd, unix.TCSBRK, 1); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (p *linuxPort) Close() error {
	// The exclusive flag dies with the last descriptor anyway.
	_ = unix.IoctlSetInt(p.fd, unix.TIOCNXCL, 0)
	return unix.Close(p.fd)
}

func (p *linuxPort) BaudRate() (BaudRate, error) {
	t, err := p.termios()
	if err != nil {
		return 0, err
	}
	return termiosBaudRate(t)
}

func (p *linuxPort) SetBaudRate(b BaudRate) error {
	return p.modify(func(t *unix.Termios) error {
		return setTermiosBaudRate(t, b)
	})
}

func (p *linuxPort) DataBits() (DataBits, error) {
	t, err := p.termios()
	if err != nil {
		return 0, err
	}
	return termiosDataBits(t)
}

func (p *linuxPort) SetDataBits(bits DataBits) error {
	return p.modify(func(t *unix.Termios) error {
		return setTermiosDataBits(t, bits)
	})
}

func (p *linuxPort) Parity() (Parity, error) {
	t, err := p.termios()
	if err != nil {
		return 0, err
	}
	return termiosParity(t)
}

func (p *linuxPort) SetParity(parity Parity) error {
	return p.modify(func(t *unix.Termios) error {
		return setTermiosParity(t, parity)
	})
}

func (p *linuxPort) StopBits() (StopBits, error) {
	t, err := p.termios()
	if err != nil {
		return 0, err
	}
	return termiosStopBits(t), nil
}

func (p *linuxPort) SetStopBits(bits StopBits) error {
	return p.modify(func(t *unix.Termios) error {
		return setTermiosStopBits(t, bits)
	})
}

func (p *linuxPort) SetReadTimeout(timeout time.Duration) error {
	return p.modify(func(t *unix.Termios) error {
		setTermiosReadTimeout(t, timeout)
		return nil
	})
}

// makeRaw is cfmakeraw without the 8N1 framing, plus CREAD|CLOCAL: no line
// discipline, no echo, no signal characters, no output processing, receiver
// enabled and modem status lines ignored. Data bits and parity are left to
// the line settings applied after it.
func makeRaw(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CRTSCTS
	t.Cflag |= unix.CREAD | unix.CLOCAL
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}

var termiosSpeeds = map[BaudRate]uint32{
	Baud0:      unix.B0,
	Baud50:     unix.B50,
	Baud75:     unix.B75,
	Baud110:    unix.B110,
	Baud134:    unix.B134,
	Baud150:    unix.B150,
	Baud200:    unix.B200,
	Baud300:    unix.B300,
	Baud600:    unix.B600,
	Baud1200:   unix.B1200,
	Baud1800:   unix.B1800,
	Baud2400:   unix.B2400,
	Baud4800:   unix.B4800,
	Baud9600:   unix.B9600,
	Baud19200:  unix.B19200,
	Baud38400:  unix.B38400,
	Baud57600:  unix.B57600,
	Baud115200: unix.B115200,
	Baud230400: unix.B230400,
}

func setTermiosBaudRate(t *unix.Termios, b BaudRate) error {
	speed, ok := termiosSpeeds[b]
	if !ok {
		return kindError(ErrUnsupported, uint64(b), nil)
	}
	t.Cflag = (t.Cflag &^ unix.CBAUD) | speed
	t.Ispeed = speed
	t.Ospeed = speed
	return nil
}

func termiosBaudRate(t *unix.Termios) (BaudRate, error) {
	speed := t.Cflag & unix.CBAUD
	for b, s := range termiosSpeeds {
		if s == speed {
			return b, nil
		}
	}
	return 0, kindError(ErrUnexpectedValue, uint64(speed), codeError{"speed", uint64(speed)})
}

var termiosSizes = map[DataBits]uint32{
	DataBits5: unix.CS5,
	DataBits6: unix.CS6,
	DataBits7: unix.CS7,
	DataBits8: unix.CS8,
}

func setTermiosDataBits(t *unix.Termios, bits DataBits) error {
	size, ok := termiosSizes[bits]
	if !ok {
		return kindError(ErrUnsupported, uint64(bits), nil)
	}
	t.Cflag = (t.Cflag &^ unix.CSIZE) | size
	return nil
}

func termiosDataBits(t *unix.Termios) (DataBits, error) {
	size := t.Cflag & unix.CSIZE
	for bits, s := range termiosSizes {
		if s == size {
			return bits, nil
		}
	}
	return 0, kindError(ErrUnexpectedValue, uint64(size), codeError{"character size", uint64(size)})
}

// setTermiosParity enables input parity checking together with the parity
// bit. Mark and space parity are not offered on Linux.
func setTermiosParity(t *unix.Termios, p Parity) error {
	switch p {
	case ParityNone:
		t.Cflag &^= unix.PARENB | unix.PARODD | unix.CMSPAR
		t.Iflag &^= unix.INPCK
	case ParityOdd:
		t.Cflag &^= unix.CMSPAR
		t.Cflag |= unix.PARENB | unix.PARODD
		t.Iflag |= unix.INPCK
	case ParityEven:
		t.Cflag &^= unix.PARODD | unix.CMSPAR
		t.Cflag |= unix.PARENB
		t.Iflag |= unix.INPCK
	default:
		return kindError(ErrUnsupported, uint64(p), nil)
	}
	return nil
}

func termiosParity(t *unix.Termios) (Parity, error) {
	switch {
	case t.Cflag&unix.CMSPAR != 0:
		return 0, kindError(ErrUnexpectedValue, uint64(t.Cflag), codeError{"c_cflag", uint64(t.Cflag)})
	case t.Cflag&unix.PARENB == 0:
		return ParityNone, nil
	case t.Cflag&unix.PARODD != 0:
		return ParityOdd, nil
	default:
		return ParityEven, nil
	}
}

func setTermiosStopBits(t *unix.Termios, sb StopBits) error {
	switch sb {
	case StopBits1:
		t.Cflag &^= unix.CSTOPB
	case StopBits2:
		t.Cflag |= unix.CSTOPB
	default:
		return kindError(ErrUnsupported, uint64(sb), nil)
	}
	return nil
}

func termiosStopBits(t *unix.Termios) StopBits {
	if t.Cflag&unix.CSTOPB != 0 {
		return StopBits2
	}
	return StopBits1
}

// setTermiosReadTimeout selects blocking reads (VMIN=1, VTIME=0) for a zero
// timeout, otherwise a pure inter-read timer in tenths of a second.
func setTermiosReadTimeout(t *unix.Termios, timeout time.Duration) {
	if timeout <= 0 {
		t.Cc[unix.VMIN] = 1
		t.Cc[unix.VTIME] = 0
		return
	}
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = uint8(timeout / (100 * time.Millisecond))
}
