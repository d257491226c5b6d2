//go:build windows

package comport

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/sys/windows"

	"github.com/allbin/go-comport/internal/dcb"
)

// windowsPort drives a COM port through a synchronous (non-overlapped)
// file handle and the DCB control block.
type windowsPort struct {
	h windows.Handle
}

func platformCapabilities() capabilities {
	return capabilities{
		baudRate: windowsBaudRate,
		parity:   Parity.Valid,
		stopBits: StopBits.Valid,
	}
}

// devicePath puts bare names such as "COM12" in the device namespace, which
// CreateFile requires for COM10 and above.
func devicePath(name string) string {
	if strings.HasPrefix(name, `\\`) {
		return name
	}
	return `\\.\` + name
}

func openPlatform(name string) (nativePort, error) {
	path, err := windows.UTF16PtrFromString(devicePath(name))
	if err != nil {
		return nil, kindError(ErrOpenFailed, 0, err)
	}

	// Share mode 0 makes the OS refuse every other open of the device.
	h, err := windows.CreateFile(path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
	if err != nil {
		return nil, classifyOpenError(err)
	}
	return &windowsPort{h: h}, nil
}

// classifyOpenError maps a CreateFile failure onto the error kinds.
func classifyOpenError(err error) error {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return kindError(ErrOpenFailed, 0, err)
	}
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
		return kindError(ErrNotFound, uint64(errno), err)
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION:
		return kindError(ErrAlreadyInUse, uint64(errno), err)
	default:
		return kindError(ErrOpenFailed, uint64(errno), err)
	}
}

// classifyIOError maps a ReadFile/WriteFile failure onto the error kinds.
func classifyIOError(err error) error {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return kindError(ErrIOFailed, 0, err)
	}
	switch errno {
	case windows.ERROR_INVALID_USER_BUFFER:
		return kindError(ErrInvalidBuffer, uint64(errno), err)
	case windows.ERROR_NOT_ENOUGH_MEMORY:
		return kindError(ErrResourceExhausted, uint64(errno), err)
	case windows.ERROR_OPERATION_ABORTED:
		return kindError(ErrInterrupted, uint64(errno), err)
	default:
		return kindError(ErrIOFailed, uint64(errno), codeError{"native error", uint64(errno)})
	}
}

func configError(err error) error {
	var code uint64
	var errno windows.Errno
	if errors.As(err, &errno) {
		code = uint64(errno)
	}
	return kindError(ErrConfigurationFailed, code, err)
}

// modify performs one zero -> get -> change -> set round trip of the DCB.
func (p *windowsPort) modify(change func(*dcb.DCB) error) error {
	var d dcb.DCB
	if err := dcb.GetCommState(p.h, &d); err != nil {
		return configError(err)
	}
	if err := change(&d); err != nil {
		return err
	}
	if err := dcb.SetCommState(p.h, &d); err != nil {
		return configError(err)
	}
	return nil
}

// state reads a fresh copy of the DCB.
func (p *windowsPort) state() (*dcb.DCB, error) {
	var d dcb.DCB
	if err := dcb.GetCommState(p.h, &d); err != nil {
		return nil, configError(err)
	}
	return &d, nil
}

func (p *windowsPort) Read(b []byte) (int, error) {
	var n uint32
	if err := windows.ReadFile(p.h, b, &n, nil); err != nil {
		return int(n), classifyIOError(err)
	}
	return int(n), nil
}

func (p *windowsPort) Write(b []byte) (int, error) {
	var n uint32
	if err := windows.WriteFile(p.h, b, &n, nil); err != nil {
		return int(n), classifyIOError(err)
	}
	return int(n), nil
}

func (p *windowsPort) Flush() error {
	if err := windows.FlushFileBuffers(p.h); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (p *windowsPort) Close() error {
	return windows.CloseHandle(p.h)
}

func (p *windowsPort) BaudRate() (BaudRate, error) {
	d, err := p.state()
	if err != nil {
		return 0, err
	}
	return dcbBaudRate(d)
}

func (p *windowsPort) SetBaudRate(b BaudRate) error {
	return p.modify(func(d *dcb.DCB) error {
		putDCBBaudRate(d, b)
		return nil
	})
}

func (p *windowsPort) DataBits() (DataBits, error) {
	d, err := p.state()
	if err != nil {
		return 0, err
	}
	return dcbDataBits(d)
}

func (p *windowsPort) SetDataBits(bits DataBits) error {
	return p.modify(func(d *dcb.DCB) error {
		putDCBDataBits(d, bits)
		return nil
	})
}

func (p *windowsPort) Parity() (Parity, error) {
	d, err := p.state()
	if err != nil {
		return 0, err
	}
	return dcbParity(d)
}

func (p *windowsPort) SetParity(parity Parity) error {
	return p.modify(func(d *dcb.DCB) error {
		return putDCBParity(d, parity)
	})
}

func (p *windowsPort) StopBits() (StopBits, error) {
	d, err := p.state()
	if err != nil {
		return 0, err
	}
	return dcbStopBitsOf(d)
}

func (p *windowsPort) SetStopBits(bits StopBits) error {
	return p.modify(func(d *dcb.DCB) error {
		return putDCBStopBits(d, bits)
	})
}

// SetReadTimeout uses the MAXDWORD/MAXDWORD/constant combination, which
// returns as soon as any byte is buffered and otherwise waits up to the
// constant. Writes never time out.
func (p *windowsPort) SetReadTimeout(timeout time.Duration) error {
	constant := uint32(windows.INFINITE - 1)
	if timeout > 0 {
		constant = uint32(timeout / time.Millisecond)
	}
	timeouts := windows.CommTimeouts{
		ReadIntervalTimeout:        windows.INFINITE,
		ReadTotalTimeoutMultiplier: windows.INFINITE,
		ReadTotalTimeoutConstant:   constant,
	}
	if err := windows.SetCommTimeouts(p.h, &timeouts); err != nil {
		return configError(err)
	}
	return nil
}
