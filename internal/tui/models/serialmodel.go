package models

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/components"
)

type ConnectionStatusMsg struct {
	Connected bool
	Line      components.LineInfo
	Error     error
}

// ReaderStoppedMsg is sent once the read loop has closed the port.
type ReaderStoppedMsg struct{}

// SerialModel holds the shared state of a TUI attached to one port. The
// read loop owns the port: it is the only goroutine that reads from it and
// it closes the port when it stops.
type SerialModel struct {
	portPath string
	port     comport.Port

	connected bool
	rawData   []components.DataReceivedMsg
	maxRaw    int
	err       error
	ready     bool

	cancel context.CancelFunc
	ctx    context.Context
	mu     sync.RWMutex
}

// NewSerialModel keeps at most maxRaw received chunks; 0 keeps everything.
func NewSerialModel(portPath string, maxRaw int) *SerialModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &SerialModel{
		portPath: portPath,
		maxRaw:   maxRaw,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m *SerialModel) SetPort(port comport.Port) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.port = port
}

func (m *SerialModel) GetPortPath() string {
	return m.portPath
}

func (m *SerialModel) IsConnected() bool {
	return m.connected
}

func (m *SerialModel) SetConnected(connected bool) {
	m.connected = connected
}

func (m *SerialModel) GetError() error {
	return m.err
}

func (m *SerialModel) SetError(err error) {
	m.err = err
}

func (m *SerialModel) IsReady() bool {
	return m.ready
}

func (m *SerialModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *SerialModel) GetRawData() []components.DataReceivedMsg {
	return m.rawData
}

func (m *SerialModel) AddRawData(msg components.DataReceivedMsg) {
	m.rawData = append(m.rawData, msg)
	if m.maxRaw > 0 && len(m.rawData) > m.maxRaw {
		m.rawData = m.rawData[len(m.rawData)-m.maxRaw:]
	}
}

func (m *SerialModel) ClearData() {
	m.rawData = nil
}

// Stats returns the port counters, or zero values before a port is attached.
func (m *SerialModel) Stats() comport.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.port == nil {
		return comport.Stats{}
	}
	return m.port.Stats()
}

func (m *SerialModel) GetContext() context.Context {
	return m.ctx
}

// Cancel asks the read loop to stop. The loop notices after its current
// Read returns, so ports should be opened with a read timeout.
func (m *SerialModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
	}
}

// QueryLine reads the live line settings of the attached port.
func QueryLine(port comport.Port) (components.LineInfo, error) {
	var (
		li  components.LineInfo
		err error
	)
	if li.BaudRate, err = port.BaudRate(); err != nil {
		return li, err
	}
	if li.DataBits, err = port.DataBits(); err != nil {
		return li, err
	}
	if li.Parity, err = port.Parity(); err != nil {
		return li, err
	}
	if li.StopBits, err = port.StopBits(); err != nil {
		return li, err
	}
	return li, nil
}

// ReadLoop reads from the attached port until the context is cancelled or
// a read fails for good, delivering every chunk through send. It closes the
// port before returning.
func (m *SerialModel) ReadLoop(send func(tea.Msg)) {
	m.mu.RLock()
	port := m.port
	m.mu.RUnlock()
	if port == nil {
		return
	}
	defer func() {
		port.Close()
		send(ReaderStoppedMsg{})
	}()

	buffer := make([]byte, 4096)
	for m.ctx.Err() == nil {
		n, err := port.Read(buffer)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buffer[:n])
			send(components.DataReceivedMsg{Timestamp: time.Now(), Data: data})
		}
		if err == nil {
			continue
		}
		if errors.Is(err, comport.ErrInterrupted) {
			send(components.ReadErrorMsg{Err: err})
			continue
		}
		send(components.ReadErrorMsg{Err: err, Fatal: true})
		return
	}
}
