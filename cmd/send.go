/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
	"github.com/allbin/go-comport/internal/tui/colors"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port.

Data can be provided as:
- Command line argument: comport send "Hello World" /dev/ttyUSB0
- From stdin (pipe): echo "test data" | comport send /dev/ttyUSB0
- Interactive mode: comport send /dev/ttyUSB0 (prompts for input)

The whole buffer is written even if the driver accepts it in pieces, and the
command waits for the OS to transmit it before closing the port.

Example usage:
  comport send "Hello World" /dev/ttyUSB0
  comport send "AT+GMR" COM8 --newline
  comport send "41 64 61 00 1F 4A" /dev/ttyACM0 --hex
  echo "test" | comport send /dev/ttyUSB0 --baud 9600`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data, portPath string

		// Parse arguments: either "send data port" or "send port"
		if len(args) == 1 {
			portPath = args[0]
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				data = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("error reading from stdin: %w", err)
				}
				data = strings.TrimRight(string(stdinData), "\r\n")
			}
		} else {
			data = args[0]
			portPath = args[1]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")

		payload := []byte(data)
		if hexMode {
			var err error
			if payload, err = parseHexString(data); err != nil {
				return fmt.Errorf("invalid hex data: %w", err)
			}
		} else if addNewline {
			payload = append(payload, '\n')
		}

		settings, err := loadLineSettings(cmd)
		if err != nil {
			return err
		}
		return sendData(portPath, payload, settings)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	addLineFlags(sendCmd, 0)
	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

func promptForData() string {
	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colors.Mauve)

	fmt.Print(promptStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// parseHexString accepts hex bytes with optional spaces and 0x prefixes.
func parseHexString(hexStr string) ([]byte, error) {
	hexStr = strings.ReplaceAll(hexStr, " ", "")
	hexStr = strings.ReplaceAll(hexStr, "0x", "")
	hexStr = strings.ReplaceAll(hexStr, "0X", "")

	if len(hexStr)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length")
	}
	return hex.DecodeString(hexStr)
}

func sendData(portPath string, data []byte, settings lineSettings) error {
	infoStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true)

	successStyle := lipgloss.NewStyle().
		Foreground(colors.Green).
		Bold(true)

	fmt.Printf("%s Opening %s at %s...\n", infoStyle.Render("⚡"), portPath, settings)

	port, err := settings.open(portPath)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("%s Sending %d bytes...\n", infoStyle.Render("📤"), len(data))

	if err := comport.WriteAll(port, data); err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}
	if err := port.Flush(); err != nil {
		return fmt.Errorf("failed to drain output: %w", err)
	}

	fmt.Printf("%s Successfully sent %d bytes\n", successStyle.Render("✓"), port.Stats().BytesWritten)
	fmt.Printf("%s Data: %s\n", infoStyle.Render("📋"), preview(data, 50))
	return nil
}

// preview shortens data for display and masks non-printable bytes.
func preview(data []byte, limit int) string {
	suffix := ""
	if len(data) > limit {
		data, suffix = data[:limit], "..."
	}
	var b strings.Builder
	for _, c := range data {
		if c < 32 || c > 126 {
			b.WriteRune('·')
		} else {
			b.WriteByte(c)
		}
	}
	return b.String() + suffix
}
