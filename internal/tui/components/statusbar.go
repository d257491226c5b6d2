package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/colors"
)

// LineInfo is what the status bar shows about the open line.
type LineInfo struct {
	BaudRate comport.BaudRate
	DataBits comport.DataBits
	Parity   comport.Parity
	StopBits comport.StopBits
}

func (li LineInfo) String() string {
	return fmt.Sprintf("%s %s%s%s", li.BaudRate, li.DataBits, li.Parity.Letter(), li.StopBits)
}

type connState int

const (
	stateConnecting connState = iota
	stateConnected
	stateFailed
	stateClosed
)

type StatusBar struct {
	portPath string
	state    connState
	err      error
	width    int
	line     *LineInfo
	stats    comport.Stats
}

func NewStatusBar(portPath string) *StatusBar {
	return &StatusBar{portPath: portPath}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetConnected records the line settings as reported by the OS after open.
func (sb *StatusBar) SetConnected(line LineInfo) {
	sb.state = stateConnected
	sb.line = &line
	sb.err = nil
}

func (sb *StatusBar) SetFailed(err error) {
	sb.state = stateFailed
	sb.err = err
}

func (sb *StatusBar) SetClosed() {
	sb.state = stateClosed
}

func (sb *StatusBar) SetStats(s comport.Stats) {
	sb.stats = s
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// View renders mode | port + indicator | line settings | counters | clock.
func (sb *StatusBar) View(mode, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1)
	if mode != "FOLLOW" {
		modeStyle = modeStyle.Background(colors.Peach)
	}

	portStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1)

	var indicator string
	switch sb.state {
	case stateConnected:
		indicator = lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	case stateConnecting:
		indicator = lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	case stateFailed:
		indicator = lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	default:
		indicator = lipgloss.NewStyle().Foreground(colors.Red).Render("○")
	}

	info := "⚡ serial"
	if sb.line != nil {
		info = "⚡ " + sb.line.String()
	}
	if sb.err != nil {
		info = sb.err.Error()
	}
	infoStyle := lipgloss.NewStyle().Foreground(colors.Subtext0).Padding(0, 1)

	counters := fmt.Sprintf("RX %d B", sb.stats.BytesRead)
	if sb.stats.ReadErrors > 0 {
		counters += fmt.Sprintf(" (%d err)", sb.stats.ReadErrors)
	}
	counterStyle := lipgloss.NewStyle().Foreground(colors.Sky).Padding(0, 1)

	timeStyle := lipgloss.NewStyle().Foreground(colors.Subtext1).Padding(0, 1)
	divider := lipgloss.NewStyle().Foreground(colors.Surface2).Padding(0, 1).Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left,
		modeStyle.Render(mode), portStyle.Render(sb.portPath), indicator, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left,
		infoStyle.Render(info), divider, counterStyle.Render(counters), divider, timeStyle.Render(timestamp))

	spacerWidth := max(terminalWidth-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
