/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/colors"
	"github.com/allbin/go-comport/internal/tui/styles"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display the current line settings of a serial port",
	Long: `Open a serial port and display the line settings the operating system
currently reports for it.

The baud rate, data bits, parity and stop bits are left as they are unless
--baud is given, in which case only the baud rate is changed. On Linux the
port is switched to raw mode.

Examples:
  comport info /dev/ttyUSB0
  comport info COM8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baud, err := changedBaud(cmd)
		if err != nil {
			return err
		}

		port, err := openKeepingLine(args[0], baud)
		if err != nil {
			return err
		}
		defer port.Close()

		rows, err := describeLine(port)
		if err != nil {
			return err
		}
		fmt.Println(styles.TitleStyle.Render(port.Name()))
		fmt.Println(settingsTable(rows).View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntP("baud", "b", 9600, "Change the baud rate before reading the settings")
}

// changedBaud returns the --baud value when the user gave one, else nil.
func changedBaud(cmd *cobra.Command) (*comport.BaudRate, error) {
	if !cmd.Flags().Changed("baud") {
		return nil, nil
	}
	rate, _ := cmd.Flags().GetInt("baud")
	baud, err := comport.ParseBaudRate(rate)
	if err != nil {
		return nil, err
	}
	return &baud, nil
}

// openKeepingLine opens name without touching its data bits, parity or stop
// bits. The baud rate is only written when baud is non-nil.
func openKeepingLine(name string, baud *comport.BaudRate) (comport.Port, error) {
	if baud == nil {
		return comport.OpenCurrent(name)
	}
	return comport.Open(name, *baud, comport.WithCurrentLine())
}

type settingRow struct {
	name, value string
}

// describeLine queries every line setting from the OS.
func describeLine(port comport.Port) ([]settingRow, error) {
	baud, err := port.BaudRate()
	if err != nil {
		return nil, err
	}
	dataBits, err := port.DataBits()
	if err != nil {
		return nil, err
	}
	parity, err := port.Parity()
	if err != nil {
		return nil, err
	}
	stopBits, err := port.StopBits()
	if err != nil {
		return nil, err
	}

	return []settingRow{
		{"Type", comport.Describe(port.Name())},
		{"Baud rate", baud.String()},
		{"Data bits", dataBits.String()},
		{"Parity", parity.String()},
		{"Stop bits", stopBits.String()},
		{"Frame", fmt.Sprintf("%s%s%s", dataBits, parity.Letter(), stopBits)},
	}, nil
}

func settingsTable(rows []settingRow) table.Model {
	data := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		data = append(data, table.NewRow(table.RowData{"setting": r.name, "value": r.value}))
	}
	return table.New([]table.Column{
		table.NewColumn("setting", "Setting", 14),
		table.NewColumn("value", "Value", 24),
	}).
		WithRows(data).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().BorderForeground(colors.Surface2).Align(lipgloss.Left))
}
