//go:build windows

package dcb

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetCommState = modkernel32.NewProc("GetCommState")
	procSetCommState = modkernel32.NewProc("SetCommState")
)

// GetCommState reads the current control settings of the device h into d.
// The native call fills a freshly zeroed image; on failure the Win32 last
// error is returned as a syscall.Errno and d is left unchanged.
func GetCommState(h windows.Handle, d *DCB) error {
	var image [Size]byte
	(&DCB{Length: Size}).Marshal(image[:])

	r, _, err := procGetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(&image[0])))
	if r == 0 {
		return err
	}
	return d.Unmarshal(image[:])
}

// SetCommState writes d as the device's control settings. The change takes
// effect immediately; there is nothing to flush.
func SetCommState(h windows.Handle, d *DCB) error {
	var image [Size]byte
	d.Length = Size
	d.Marshal(image[:])

	r, _, err := procSetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(&image[0])))
	if r == 0 {
		return err
	}
	return nil
}
