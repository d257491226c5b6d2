/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads data from the specified serial port and writes it directly to the
output file. Runs continuously until interrupted (Ctrl+C).

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  comport capture /dev/ttyUSB0 data.log
  comport capture COM8 output.txt --baud 9600
  comport capture /dev/ttyUSB0 capture.log --console`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")

		settings, err := loadLineSettings(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var console io.Writer
		if showConsole {
			console = os.Stdout
		}
		return runCapture(ctx, args[0], args[1], bufferSize, console, settings)
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	addLineFlags(captureCmd, 200*time.Millisecond)
	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

func runCapture(ctx context.Context, portPath, outputPath string, bufferSize int, console io.Writer, settings lineSettings) error {
	port, err := settings.open(portPath)
	if err != nil {
		return fmt.Errorf("failed to open port: %w", err)
	}
	defer port.Close()

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(os.Stderr, "Capturing data from %s (%s) to %s\n", portPath, settings, outputPath)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	written, err := capture(ctx, port, file, console, bufferSize)
	fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n",
		written, time.Since(port.Stats().OpenedAt).Round(time.Millisecond))
	return err
}

// capture copies from r to w until ctx is done. Reads must return
// periodically (a read timeout) for cancellation to be noticed.
func capture(ctx context.Context, r io.Reader, w, console io.Writer, bufferSize int) (int64, error) {
	buffer := make([]byte, bufferSize)
	var total int64

	for ctx.Err() == nil {
		n, err := r.Read(buffer)
		if err != nil {
			if errors.Is(err, comport.ErrInterrupted) {
				continue
			}
			return total, fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			continue
		}

		written, err := w.Write(buffer[:n])
		total += int64(written)
		if err != nil {
			return total, fmt.Errorf("write error: %w", err)
		}
		if console != nil {
			console.Write(buffer[:n])
		}
	}
	log.Debug().Int64("bytes", total).Msg("capture stopped")
	return total, nil
}
