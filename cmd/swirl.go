/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/allbin/go-comport/internal/adalight"
)

// swirlCmd represents the swirl command
var swirlCmd = &cobra.Command{
	Use:   "swirl <port>",
	Short: "Stream a color swirl to an Adalight LED controller",
	Long: `Stream a rainbow swirl to an Arduino running the Adalight LED sketch.

Every frame carries the 'Ada' header, the LED count and its checksum,
followed by one RGB triple per LED. Most controllers reset when the port
opens, so the command waits --settle before the first frame.

Example usage:
  comport swirl /dev/ttyACM0
  comport swirl COM5 --leds 60 --frames 0
  comport swirl /dev/ttyUSB0 --delay 10ms --baud 230400`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		leds, _ := cmd.Flags().GetInt("leds")
		frames, _ := cmd.Flags().GetInt("frames")
		delay, _ := cmd.Flags().GetDuration("delay")
		settle, _ := cmd.Flags().GetDuration("settle")

		frame, err := adalight.NewFrame(leds)
		if err != nil {
			return err
		}
		if frames == 0 {
			frames = -1
		}

		settings, err := loadLineSettings(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		port, err := settings.open(args[0])
		if err != nil {
			return err
		}
		defer port.Close()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(settle):
		}

		fmt.Fprintf(os.Stderr, "Streaming %d LEDs to %s (%s), Ctrl+C to stop\n", leds, port.Name(), settings)
		err = adalight.Stream(ctx, port, &adalight.Swirl{}, frame, frames, delay)
		s := port.Stats()
		log.Info().
			Int64("bytes", s.BytesWritten).
			Int64("frames", s.BytesWritten/int64(len(frame))).
			Msg("swirl finished")
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(swirlCmd)

	addLineFlags(swirlCmd, 0)
	swirlCmd.Flags().Int("leds", 32, "Number of LEDs on the strip")
	swirlCmd.Flags().Int("frames", 1000, "Frames to send, 0 runs until interrupted")
	swirlCmd.Flags().Duration("delay", 3*time.Millisecond, "Pause between frames")
	swirlCmd.Flags().Duration("settle", time.Second, "Wait after opening before the first frame")
}
