// Package comport gives exclusive, blocking access to a serial port on
// Linux and Windows through one interface.
//
// A Port owns its device from Open until Close. Line settings are never
// cached: every getter asks the operating system, and every setter re-reads
// the native settings before changing the one field it is about.
//
// # Basic Usage
//
// Open a port at 115200 baud:
//
//	port, err := comport.Open("/dev/ttyUSB0", comport.Baud115200)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte("Hello"))
//	buffer := make([]byte, 256)
//	n, err = port.Read(buffer)
//
// Write may accept fewer bytes than given; WriteAll keeps going until the
// whole buffer is out.
//
// # Configuration Options
//
//	port, err := comport.Open("COM8", comport.Baud9600,
//	    comport.WithDataBits(comport.DataBits7),
//	    comport.WithParity(comport.ParityEven),
//	    comport.WithStopBits(comport.StopBits2),
//	    comport.WithReadTimeout(500*time.Millisecond),
//	)
//
// On Linux, Open always leaves the line in raw mode at 8N1 unless options
// say otherwise. On Windows only the settings named by options are changed
// and the rest keep the driver's current values. WithCurrentLine skips the
// Linux 8N1 step, and OpenCurrent also leaves the baud rate alone:
//
//	port, err := comport.OpenCurrent("/dev/ttyUSB0")
//
// # Port Discovery
//
//	ports, err := comport.ListPorts()
//	port, err := comport.OpenFirst(ports, comport.Baud115200)
//
// # Error Handling
//
// Every error is an *Error whose kind matches one of the ErrXxx variables
// with errors.Is:
//
//	if errors.Is(err, comport.ErrAlreadyInUse) {
//	    // another process holds the device
//	}
//
// The raw errno or Win32 code is available through errors.As and Error.Code.
//
// # Platform Support
//
// Mark and space parity and 1.5 stop bits exist only on Windows; the
// zero baud rate only on Linux. Asking for them elsewhere returns
// ErrUnsupported without touching the device.
//
// Close releases the device exactly once. A failure to release the native
// handle is treated as unrecoverable and panics.
package comport
