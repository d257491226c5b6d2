/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/colors"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports the operating system currently reports.

The names printed can be passed straight to the other commands: COM ports on
Windows, /dev/tty* devices on Linux.

Example usage:
  comport list
  comport list --filter usb
  comport list --table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := comport.ListPorts()
		if err != nil {
			return err
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered := filterPorts(ports, filterType)
		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(filtered))
			fmt.Println(portTable(filtered).View())
			return nil
		}
		for _, port := range filtered {
			fmt.Println(port)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, com, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []string, filterType string) []string {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []string
	for _, port := range ports {
		name := strings.ToLower(filepath.Base(port))
		var match bool
		switch strings.ToLower(filterType) {
		case "usb":
			match = strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
		case "standard":
			match = strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac")
		case "arm":
			match = strings.HasPrefix(name, "ttyama")
		case "com":
			match = strings.HasPrefix(name, "com")
		}
		if match {
			filtered = append(filtered, port)
		}
	}
	return filtered
}

const (
	columnKeyPort        = "port"
	columnKeyDescription = "description"
)

// portTable renders the port list as a static table.
func portTable(ports []string) table.Model {
	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:        port,
			columnKeyDescription: comport.Describe(port),
		}))
	}

	return table.New([]table.Column{
		table.NewColumn(columnKeyPort, "Port", 20),
		table.NewColumn(columnKeyDescription, "Description", 26),
	}).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().BorderForeground(colors.Surface2).Align(lipgloss.Left))
}
