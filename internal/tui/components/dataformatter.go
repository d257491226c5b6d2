package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-comport/internal/tui/colors"
)

// DataReceivedMsg carries one chunk returned by a port Read.
type DataReceivedMsg struct {
	Timestamp time.Time
	Data      []byte
}

// ReadErrorMsg reports a failed Read. The reader keeps going unless Fatal.
type ReadErrorMsg struct {
	Err   error
	Fatal bool
}

type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(mode DisplayMode) *DataFormatter {
	return &DataFormatter{mode: mode}
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

var (
	rxStyle        = lipgloss.NewStyle().Foreground(colors.Sky).Bold(true)
	timestampStyle = lipgloss.NewStyle().Foreground(colors.Subtext0)
	countStyle     = lipgloss.NewStyle().Foreground(colors.Overlay1)
)

func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	var parts []string

	if df.mode.ShowTimestamps {
		parts = append(parts, timestampStyle.Render("["+msg.Timestamp.Format("15:04:05.000")+"]"))
	}
	parts = append(parts, rxStyle.Render("↙ RX"), countStyle.Render(fmt.Sprintf("%4d", len(msg.Data))))

	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", msg.Data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+printable(msg.Data))
	}
	return strings.Join(parts, " ")
}

// printable replaces every byte outside printable ASCII with a dot so no
// control sequence reaches the terminal.
func printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}
