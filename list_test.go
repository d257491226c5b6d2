package comport

import (
	"errors"
	"strings"
	"testing"
)

func useEnumerator(t *testing.T, ports []string, err error) {
	t.Helper()
	prev := enumeratePorts
	enumeratePorts = func() ([]string, error) { return ports, err }
	t.Cleanup(func() { enumeratePorts = prev })
}

func TestListPortsSorted(t *testing.T) {
	useEnumerator(t, []string{"/dev/ttyUSB1", "/dev/ttyACM0", "/dev/ttyS0"}, nil)

	ports, err := ListPorts()
	if err != nil {
		t.Fatalf("ListPorts failed: %v", err)
	}
	want := "/dev/ttyACM0,/dev/ttyS0,/dev/ttyUSB1"
	if got := strings.Join(ports, ","); got != want {
		t.Errorf("ListPorts() = %s, want %s", got, want)
	}
}

func TestListPortsError(t *testing.T) {
	cause := errors.New("no sysfs")
	useEnumerator(t, nil, cause)

	if _, err := ListPorts(); !errors.Is(err, cause) {
		t.Errorf("expected wrapped enumeration error, got %v", err)
	}
}

// openScript makes openNative answer per device name.
func openScript(t *testing.T, results map[string]error) *[]string {
	t.Helper()
	tried := &[]string{}
	prevOpen, prevPlatform := openNative, platform
	openNative = func(name string) (nativePort, error) {
		*tried = append(*tried, name)
		if err := results[name]; err != nil {
			return nil, err
		}
		return newFakeNative(), nil
	}
	platform = func() capabilities { return linuxLike }
	t.Cleanup(func() { openNative, platform = prevOpen, prevPlatform })
	return tried
}

func TestOpenFirstSkipsMissingAndBusy(t *testing.T) {
	tried := openScript(t, map[string]error{
		"/dev/ttyUSB0": kindError(ErrNotFound, 2, nil),
		"/dev/ttyUSB1": kindError(ErrAlreadyInUse, 16, nil),
	})

	p, err := OpenFirst([]string{"/dev/ttyUSB0", "/dev/ttyUSB1", "/dev/ttyUSB2", "/dev/ttyUSB3"}, Baud115200)
	if err != nil {
		t.Fatalf("OpenFirst: %v", err)
	}
	defer p.Close()

	if p.Name() != "/dev/ttyUSB2" {
		t.Errorf("opened %s, want /dev/ttyUSB2", p.Name())
	}
	if len(*tried) != 3 {
		t.Errorf("tried %v, expected to stop at the first success", *tried)
	}
}

func TestOpenFirstStopsOnHardFailure(t *testing.T) {
	tried := openScript(t, map[string]error{
		"/dev/ttyUSB0": kindError(ErrOpenFailed, 13, nil),
	})

	_, err := OpenFirst([]string{"/dev/ttyUSB0", "/dev/ttyUSB1"}, Baud9600)
	if !errors.Is(err, ErrOpenFailed) {
		t.Errorf("expected ErrOpenFailed, got %v", err)
	}
	if len(*tried) != 1 {
		t.Errorf("tried %v, expected to stop after the first failure", *tried)
	}
}

func TestOpenFirstAllUnavailable(t *testing.T) {
	openScript(t, map[string]error{
		"COM3": kindError(ErrNotFound, 2, nil),
		"COM4": kindError(ErrAlreadyInUse, 5, nil),
	})

	_, err := OpenFirst([]string{"COM3", "COM4"}, Baud9600)
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrAlreadyInUse) {
		t.Errorf("expected every attempt in the error, got %v", err)
	}
	if !strings.Contains(err.Error(), "COM3") || !strings.Contains(err.Error(), "COM4") {
		t.Errorf("error should name each candidate: %v", err)
	}
}

func TestOpenFirstNoCandidates(t *testing.T) {
	if _, err := OpenFirst(nil, Baud9600); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"/dev/ttyUSB0", "USB Serial Port"},
		{"/dev/ttyACM0", "USB CDC/ACM Device"},
		{"/dev/ttyS0", "Standard Serial Port"},
		{"/dev/ttyAMA0", "ARM Serial Port"},
		{"/dev/ttymxc0", "i.MX Serial Port"},
		{"/dev/ttyO0", "OMAP Serial Port"},
		{"/dev/ttySAC0", "Samsung Serial Port"},
		{"/dev/ttyTHS0", "Tegra Serial Port"},
		{"/dev/rfcomm0", "Bluetooth Serial Port"},
		{"COM8", "COM Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := Describe(test.name)
		if result != test.expected {
			t.Errorf("Describe(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

// TestListPortsIntegration queries the real OS enumerator.
func TestListPortsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ports, err := ListPorts()
	if err != nil {
		t.Skipf("enumeration unavailable: %v", err)
	}

	t.Logf("Found %d serial ports:", len(ports))
	for i, port := range ports {
		t.Logf("  %d. %s (%s)", i+1, port, Describe(port))
	}
}
