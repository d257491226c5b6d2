//go:build !linux && !windows

package comport

// Only Linux and Windows have a native layer; everything is unsupported
// elsewhere.

func platformCapabilities() capabilities {
	return capabilities{
		baudRate: func(BaudRate) bool { return false },
		parity:   func(Parity) bool { return false },
		stopBits: func(StopBits) bool { return false },
	}
}

func openPlatform(name string) (nativePort, error) {
	return nil, kindError(ErrUnsupported, 0, nil)
}
