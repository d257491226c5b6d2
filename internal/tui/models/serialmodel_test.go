package models

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/components"
)

type readResult struct {
	data []byte
	err  error
}

// scriptedPort plays back reads; every other Port method is unused.
type scriptedPort struct {
	comport.Port
	reads  []readResult
	closed int
	onRead func()
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if p.onRead != nil {
		p.onRead()
	}
	if len(p.reads) == 0 {
		return 0, &comport.Error{Op: "read", Kind: comport.ErrIOFailed}
	}
	r := p.reads[0]
	p.reads = p.reads[1:]
	return copy(b, r.data), r.err
}

func (p *scriptedPort) Close() error {
	p.closed++
	return nil
}

func collect(m *SerialModel) []tea.Msg {
	var msgs []tea.Msg
	m.ReadLoop(func(msg tea.Msg) { msgs = append(msgs, msg) })
	return msgs
}

func TestReadLoopDeliversAndStopsOnFatalError(t *testing.T) {
	port := &scriptedPort{reads: []readResult{
		{data: []byte("one")},
		{err: &comport.Error{Op: "read", Kind: comport.ErrInterrupted}},
		{},
		{data: []byte("two")},
	}}
	m := NewSerialModel("/dev/ttyUSB0", 0)
	m.SetPort(port)

	msgs := collect(m)
	if port.closed != 1 {
		t.Errorf("port closed %d times, want 1", port.closed)
	}
	if len(msgs) != 5 {
		t.Fatalf("got %d messages: %#v", len(msgs), msgs)
	}

	if d, ok := msgs[0].(components.DataReceivedMsg); !ok || string(d.Data) != "one" {
		t.Errorf("msgs[0] = %#v", msgs[0])
	}
	if e, ok := msgs[1].(components.ReadErrorMsg); !ok || e.Fatal || !errors.Is(e.Err, comport.ErrInterrupted) {
		t.Errorf("msgs[1] = %#v", msgs[1])
	}
	if d, ok := msgs[2].(components.DataReceivedMsg); !ok || string(d.Data) != "two" {
		t.Errorf("msgs[2] = %#v", msgs[2])
	}
	if e, ok := msgs[3].(components.ReadErrorMsg); !ok || !e.Fatal || !errors.Is(e.Err, comport.ErrIOFailed) {
		t.Errorf("msgs[3] = %#v", msgs[3])
	}
	if _, ok := msgs[4].(ReaderStoppedMsg); !ok {
		t.Errorf("last message = %#v, want ReaderStoppedMsg", msgs[4])
	}
}

func TestReadLoopStopsOnCancel(t *testing.T) {
	m := NewSerialModel("COM3", 0)
	port := &scriptedPort{}
	port.reads = []readResult{{data: []byte("x")}, {data: []byte("y")}}
	port.onRead = m.Cancel
	m.SetPort(port)

	msgs := collect(m)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages: %#v", len(msgs), msgs)
	}
	if _, ok := msgs[1].(ReaderStoppedMsg); !ok {
		t.Errorf("last message = %#v", msgs[1])
	}
	if port.closed != 1 {
		t.Errorf("port closed %d times", port.closed)
	}
}

func TestReadLoopWithoutPort(t *testing.T) {
	if msgs := collect(NewSerialModel("COM1", 0)); len(msgs) != 0 {
		t.Errorf("expected no messages, got %#v", msgs)
	}
}

func TestRawDataCap(t *testing.T) {
	m := NewSerialModel("COM1", 2)
	for _, s := range []string{"a", "b", "c"} {
		m.AddRawData(components.DataReceivedMsg{Data: []byte(s)})
	}
	raw := m.GetRawData()
	if len(raw) != 2 || string(raw[0].Data) != "b" || string(raw[1].Data) != "c" {
		t.Errorf("raw data = %#v", raw)
	}
	m.ClearData()
	if len(m.GetRawData()) != 0 {
		t.Error("ClearData left data behind")
	}
	if m.Stats() != (comport.Stats{}) {
		t.Error("Stats without a port should be zero")
	}
}

func TestQueryLine(t *testing.T) {
	li, err := QueryLine(linePort{})
	if err != nil {
		t.Fatal(err)
	}
	if li.String() != "9600 7E2" {
		t.Errorf("line = %q", li.String())
	}
}

type linePort struct{ comport.Port }

func (linePort) BaudRate() (comport.BaudRate, error) { return comport.Baud9600, nil }
func (linePort) DataBits() (comport.DataBits, error) { return comport.DataBits7, nil }
func (linePort) Parity() (comport.Parity, error)     { return comport.ParityEven, nil }
func (linePort) StopBits() (comport.StopBits, error) { return comport.StopBits2, nil }
