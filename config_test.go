package comport

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.DataBits != DataBits8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}
	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}
	if config.StopBits != StopBits1 {
		t.Errorf("Expected StopBits 1, got %v", config.StopBits)
	}
	if config.ReadTimeout != 0 {
		t.Errorf("Expected blocking reads, got ReadTimeout %v", config.ReadTimeout)
	}
	if config.explicit != 0 {
		t.Errorf("Expected no explicit settings, got %b", config.explicit)
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()

	if err := WithDataBits(DataBits7)(&config); err != nil {
		t.Errorf("WithDataBits failed: %v", err)
	}
	if config.DataBits != DataBits7 || !config.has(settingDataBits) {
		t.Errorf("Expected explicit DataBits 7, got %d", config.DataBits)
	}

	if err := WithStopBits(StopBits2)(&config); err != nil {
		t.Errorf("WithStopBits failed: %v", err)
	}
	if config.StopBits != StopBits2 || !config.has(settingStopBits) {
		t.Errorf("Expected explicit StopBits 2, got %v", config.StopBits)
	}

	if config.has(settingParity) {
		t.Error("Parity marked explicit without WithParity")
	}
	if err := WithParity(ParityEven)(&config); err != nil {
		t.Errorf("WithParity failed: %v", err)
	}
	if config.Parity != ParityEven || !config.has(settingParity) {
		t.Errorf("Expected explicit Parity even, got %v", config.Parity)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"data bits 9", WithDataBits(9)},
		{"data bits 4", WithDataBits(4)},
		{"parity out of range", WithParity(Parity(7))},
		{"stop bits out of range", WithStopBits(StopBits(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := tt.opt(&config)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if config != DefaultConfig() {
				t.Errorf("Config mutated by rejected option: %+v", config)
			}
		})
	}
}

func TestWithReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"0ms (blocking)", 0, false},
		{"100ms (valid)", 100 * time.Millisecond, false},
		{"2500ms (valid)", 2500 * time.Millisecond, false},
		{"25500ms (max)", 25500 * time.Millisecond, false},
		{"150ms (not multiple of 100ms)", 150 * time.Millisecond, true},
		{"25600ms (exceeds max)", 25600 * time.Millisecond, true},
		{"-100ms (negative)", -100 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := WithReadTimeout(tt.timeout)(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithReadTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && config.ReadTimeout != tt.timeout {
				t.Errorf("ReadTimeout = %v, want %v", config.ReadTimeout, tt.timeout)
			}
		})
	}
}

func TestWithCurrentLine(t *testing.T) {
	config := DefaultConfig()
	if config.keepLine {
		t.Fatal("default config keeps the current line")
	}
	if err := WithCurrentLine()(&config); err != nil {
		t.Fatalf("WithCurrentLine failed: %v", err)
	}
	if !config.keepLine || config.explicit != 0 {
		t.Errorf("unexpected config: %+v", config)
	}
}

func TestInvalidOptionMessage(t *testing.T) {
	config := DefaultConfig()
	err := WithReadTimeout(250 * time.Millisecond)(&config)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "250ms is not a multiple of 100ms") {
		t.Errorf("message does not explain the step: %q", err)
	}
}
