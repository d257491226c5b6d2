/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allbin/go-comport/internal/tui/colors"
	"github.com/allbin/go-comport/internal/tui/components"
	"github.com/allbin/go-comport/internal/tui/keys"
	"github.com/allbin/go-comport/internal/tui/models"
	"github.com/allbin/go-comport/internal/tui/styles"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Listen for data on a serial port with real-time display",
	Long: `Listen for incoming data on a serial port with a real-time TUI display.

Incoming data is shown as it arrives with timestamps, hex and ASCII columns.
The status bar shows the line settings the operating system reports and the
number of bytes received.

Example usage:
  comport listen /dev/ttyUSB0
  comport listen COM8 --baud 9600 --parity even
  comport listen /dev/ttyACM0 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		rawMode, _ := cmd.Flags().GetBool("raw")
		history, _ := cmd.Flags().GetInt("history")

		settings, err := loadLineSettings(cmd)
		if err != nil {
			return err
		}

		mode := components.DisplayMode{ShowHex: true, ShowASCII: true, ShowTimestamps: !noTimestamps}
		if rawMode {
			mode = components.DisplayMode{ShowASCII: true}
		}
		return runListenTUI(args[0], settings, mode, history)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	addLineFlags(listenCmd, 200*time.Millisecond)
	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().Bool("raw", false, "Raw output mode: ASCII only, no timestamps")
	listenCmd.Flags().Int("history", 5000, "Number of received chunks to keep on screen")
}

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.TerminalKeys
	quitting  bool
}

func newListenModel(portPath string, mode components.DisplayMode, history int) *listenModel {
	return &listenModel{
		SerialModel: models.NewSerialModel(portPath, history),
		terminal:    components.NewTerminal(80, 20, history, mode),
		statusBar:   components.NewStatusBar(portPath),
		help:        help.New(),
		keys:        keys.NewTerminalKeys(),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func runListenTUI(portPath string, settings lineSettings, mode components.DisplayMode, history int) error {
	m := newListenModel(portPath, mode, history)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Connect to serial port in background
	go func() {
		port, err := settings.open(portPath)
		if err != nil {
			p.Send(models.ConnectionStatusMsg{Error: err})
			return
		}
		line, err := models.QueryLine(port)
		if err != nil {
			port.Close()
			p.Send(models.ConnectionStatusMsg{Error: err})
			return
		}

		m.SetPort(port)
		p.Send(models.ConnectionStatusMsg{Connected: true, Line: line})
		m.ReadLoop(p.Send)
	}()

	_, err := p.Run()
	m.Cancel()
	return err
}

func (m *listenModel) Init() tea.Cmd {
	return tick()
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Status bar and top border take one line each
		m.terminal.SetSize(msg.Width, msg.Height-2)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)

	case tickMsg:
		m.statusBar.SetStats(m.Stats())
		cmds = append(cmds, tick())

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetFailed(msg.Error)
		} else {
			m.statusBar.SetConnected(msg.Line)
		}

	case models.ReaderStoppedMsg:
		m.SetConnected(false)
		if m.statusBar.Err() == nil {
			m.statusBar.SetClosed()
		}
		if m.quitting {
			return m, tea.Quit
		}

	case components.ReadErrorMsg:
		log.Warn().Err(msg.Err).Bool("fatal", msg.Fatal).Msg("read failed")
		if msg.Fatal {
			m.SetError(msg.Err)
			m.statusBar.SetFailed(msg.Err)
		}

	case components.DataReceivedMsg:
		if !m.IsReady() {
			m.terminal.SetSize(80, 20)
			m.SetReady(true)
		}
		m.AddRawData(msg)
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Cancel()
			if !m.IsConnected() {
				return m, tea.Quit
			}
			// Let the reader close the port before leaving.
			m.quitting = true
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return tea.QuitMsg{} })

		case key.Matches(msg, m.keys.Clear):
			m.ClearData()
			m.terminal.Clear()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleHex):
			m.terminal.ToggleHex()
			m.terminal.Refresh(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleASCII):
			m.terminal.ToggleASCII()
			m.terminal.Refresh(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleTimestamps):
			m.terminal.ToggleTimestamps()
			m.terminal.Refresh(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleFollow):
			m.terminal.ToggleFollow()
		}
	}

	cmds = append(cmds, m.terminal.Update(msg))
	return m, tea.Batch(cmds...)
}

func (m *listenModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.terminal.View()
	}

	viewMode := "FOLLOW"
	if !m.terminal.Following() {
		viewMode = "SCROLL"
	}
	if m.IsReady() {
		m.statusBar.SetWidth(m.terminal.Width())
	}
	statusBar := m.statusBar.View(viewMode, time.Now().Format("15:04:05"))

	sections := []string{styles.ContentBorderStyle.Render(content)}
	if m.help.ShowAll {
		helpStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(1, 2).
			Margin(1, 0)
		sections = append(sections, helpStyle.Render(m.help.View(m.keys)))
	}
	sections = append(sections, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
