package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Terminal is a scrolling view of received data that keeps at most
// maxLines formatted lines.
type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	data      []string
	maxLines  int
	follow    bool
}

func NewTerminal(width, height, maxLines int, mode DisplayMode) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(mode),
		maxLines:  maxLines,
		follow:    true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

func (t *Terminal) Lines() int {
	return len(t.data)
}

func (t *Terminal) AddMessage(msg DataReceivedMsg) {
	t.data = append(t.data, t.formatter.FormatMessage(msg))
	if t.maxLines > 0 && len(t.data) > t.maxLines {
		t.data = t.data[len(t.data)-t.maxLines:]
	}
	t.render()
}

// Refresh reformats every retained message, e.g. after a display toggle.
func (t *Terminal) Refresh(rawData []DataReceivedMsg) {
	t.data = t.formatter.FormatMessages(rawData)
	t.render()
}

func (t *Terminal) render() {
	t.viewport.SetContent(strings.Join(t.data, "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Clear() {
	t.data = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex()        { t.formatter.ToggleHex() }
func (t *Terminal) ToggleASCII()      { t.formatter.ToggleASCII() }
func (t *Terminal) ToggleTimestamps() { t.formatter.ToggleTimestamps() }

// ToggleFollow switches between sticking to the newest line and free
// scrolling.
func (t *Terminal) ToggleFollow() bool {
	t.follow = !t.follow
	if t.follow {
		t.viewport.GotoBottom()
	}
	return t.follow
}

func (t *Terminal) Following() bool {
	return t.follow
}

func (t *Terminal) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

// Update passes size and scroll messages to the viewport. Key messages only
// scroll when follow mode is off so they never fight new data.
func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		t.viewport, cmd = t.viewport.Update(msg)
	case tea.KeyMsg:
		if !t.follow {
			t.viewport, cmd = t.viewport.Update(msg)
		}
	}
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
