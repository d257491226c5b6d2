package comport

import (
	"errors"
	"fmt"
	"time"
)

// settingMask records which line settings an Option asked for explicitly.
type settingMask uint8

const (
	settingDataBits settingMask = 1 << iota
	settingParity
	settingStopBits
)

// Config holds the open-time configuration of a serial port beyond the
// baud rate, which Open takes directly.
type Config struct {
	DataBits    DataBits
	Parity      Parity
	StopBits    StopBits
	ReadTimeout time.Duration // 0 blocks until at least one byte arrives

	explicit settingMask
	keepLine bool
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns 8N1 with blocking reads.
func DefaultConfig() Config {
	return Config{
		DataBits: DataBits8,
		Parity:   ParityNone,
		StopBits: StopBits1,
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits DataBits) Option {
	return func(c *Config) error {
		if !bits.Valid() {
			return invalidOption("data bits %d", int(bits))
		}
		c.DataBits = bits
		c.explicit |= settingDataBits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if !parity.Valid() {
			return invalidOption("parity %d", int(parity))
		}
		c.Parity = parity
		c.explicit |= settingParity
		return nil
	}
}

// WithStopBits sets the number of stop bits
func WithStopBits(bits StopBits) Option {
	return func(c *Config) error {
		if !bits.Valid() {
			return invalidOption("stop bits %d", int(bits))
		}
		c.StopBits = bits
		c.explicit |= settingStopBits
		return nil
	}
}

// WithReadTimeout bounds how long a Read waits when no data is available.
// The timeout must be a multiple of 100ms between 0 and 25.5s. Zero, the
// default, makes Read block until at least one byte arrives.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > 25500*time.Millisecond || timeout%(100*time.Millisecond) != 0 {
			return invalidOption("read timeout %v is not a multiple of 100ms between 0 and 25.5s", timeout)
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithCurrentLine keeps the data bits, parity and stop bits the device
// already has. Without it Open sets 8N1 on Linux. Settings named by
// WithDataBits, WithParity or WithStopBits are still applied.
func WithCurrentLine() Option {
	return func(c *Config) error {
		c.keepLine = true
		return nil
	}
}

// invalidOption describes a rejected option value.
func invalidOption(format string, args ...any) error {
	return &Error{Op: "configure", Kind: ErrInvalidConfig, Err: fmt.Errorf(format, args...)}
}

// optionError makes any error returned by an Option an ErrInvalidConfig.
func optionError(err error) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Kind == ErrInvalidConfig {
		return pe
	}
	return kindError(ErrInvalidConfig, 0, err)
}

// has reports whether s was requested by an option.
func (c Config) has(s settingMask) bool {
	return c.explicit&s != 0
}
