package comport

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gobug "go.bug.st/serial"
)

// allow tests to override the port enumerator
var enumeratePorts = gobug.GetPortsList

// ListPorts returns the names of serial ports the OS currently reports,
// sorted. The names can be passed straight to Open or OpenFirst.
func ListPorts() ([]string, error) {
	ports, err := enumeratePorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// OpenFirst tries each candidate in order and returns the first port that
// opens. Candidates that are absent or busy are skipped; any other failure
// stops the search. When nothing opens, the returned error joins every
// attempt's error.
func OpenFirst(candidates []string, baud BaudRate, opts ...Option) (Port, error) {
	if len(candidates) == 0 {
		return nil, &Error{Op: "open", Kind: ErrNotFound, Err: errors.New("no candidate ports")}
	}

	var errs []error
	for _, name := range candidates {
		p, err := Open(name, baud, opts...)
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrAlreadyInUse) {
			break
		}
		logger.Debug().Err(err).Str("port", name).Msg("candidate skipped")
	}
	return nil, errors.Join(errs...)
}

// Describe provides a human-readable description for a port name.
func Describe(name string) string {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(strings.ToUpper(base), "COM"):
		return "COM Port"
	case strings.HasPrefix(base, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(base, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(base, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(base, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(base, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(base, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(base, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(base, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(base, "rfcomm"):
		return "Bluetooth Serial Port"
	default:
		return "Serial Port"
	}
}
