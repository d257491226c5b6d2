/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/styles"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <port>",
	Short: "Change the line settings of a serial port",
	Long: `Change one or more line settings of a serial port and print what the
operating system reports afterwards.

Each setting is written on its own, so a failure leaves the earlier ones in
place. Settings not given on the command line are not touched; on Linux the
port is also switched to raw mode.

Example usage:
  comport set /dev/ttyUSB0 --baud 9600
  comport set COM8 --parity mark --stop-bits 1.5
  comport set /dev/ttyS0 --data-bits 7 --parity even`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := requestedChanges(cmd)
		if err != nil {
			return err
		}

		port, err := openKeepingLine(args[0], changes.baud)
		if err != nil {
			return err
		}
		defer port.Close()

		for _, apply := range changes.apply {
			if err := apply(port); err != nil {
				return err
			}
		}

		rows, err := describeLine(port)
		if err != nil {
			return err
		}
		fmt.Println(styles.StatusConnectedStyle.Render("✓") + " " + port.Name())
		fmt.Println(settingsTable(rows).View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().IntP("baud", "b", 9600, "Baud rate")
	setCmd.Flags().Int("data-bits", 8, "Data bits: 5, 6, 7 or 8")
	setCmd.Flags().StringP("parity", "p", "none", "Parity: none, odd, even, mark, space")
	setCmd.Flags().String("stop-bits", "1", "Stop bits: 1, 1.5 or 2")
}

type lineChanges struct {
	baud  *comport.BaudRate
	apply []func(comport.Port) error
}

// requestedChanges turns the flags the user actually gave into setter calls.
func requestedChanges(cmd *cobra.Command) (lineChanges, error) {
	flags := cmd.Flags()
	var (
		changes lineChanges
		err     error
	)
	if changes.baud, err = changedBaud(cmd); err != nil {
		return changes, err
	}
	if flags.Changed("data-bits") {
		n, _ := flags.GetInt("data-bits")
		bits, err := comport.ParseDataBits(n)
		if err != nil {
			return changes, err
		}
		changes.apply = append(changes.apply, func(p comport.Port) error { return p.SetDataBits(bits) })
	}
	if flags.Changed("parity") {
		s, _ := flags.GetString("parity")
		parity, err := comport.ParseParity(s)
		if err != nil {
			return changes, err
		}
		changes.apply = append(changes.apply, func(p comport.Port) error { return p.SetParity(parity) })
	}
	if flags.Changed("stop-bits") {
		s, _ := flags.GetString("stop-bits")
		stop, err := comport.ParseStopBits(s)
		if err != nil {
			return changes, err
		}
		changes.apply = append(changes.apply, func(p comport.Port) error { return p.SetStopBits(stop) })
	}
	if len(changes.apply) == 0 && changes.baud == nil {
		return changes, fmt.Errorf("nothing to set: give at least one of --baud, --data-bits, --parity, --stop-bits")
	}
	return changes, nil
}
