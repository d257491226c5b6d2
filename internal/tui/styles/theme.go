package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-comport/internal/tui/colors"
)

var (
	// TitleStyle heads single-port output such as info.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	// ContentBorderStyle separates the data view from the terminal edge.
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)
)
