package adalight

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/allbin/go-comport"
)

// HueWheel is the number of steps in one turn of the color wheel: six
// sectors of 256.
const HueWheel = 6 * 256

// HueToRGB converts a fixed-point hue to a fully saturated color. The high
// byte selects the sector (0 red, 1 yellow, 2 green, 3 cyan, 4 blue,
// 5 magenta) and the low byte is the fraction towards the next one.
func HueToRGB(hue uint16) (r, g, b uint8) {
	frac := uint8(hue & 255)
	switch (hue >> 8) % 6 {
	case 0:
		return 255, frac, 0
	case 1:
		return 255 - frac, 255, 0
	case 2:
		return 0, 255, frac
	case 3:
		return 0, 255 - frac, 255
	case 4:
		return frac, 0, 255
	default:
		return 255, 0, 255 - frac
	}
}

// Brightness maps a phase angle to a gamma-corrected level in [0, 1].
func Brightness(phase float64) float64 {
	return math.Pow(0.5+0.5*math.Sin(phase), 2.8)
}

func scale(c uint8, level float64) uint8 {
	return uint8(float64(c) * level)
}

// Swirl is a rainbow that drifts along the strip while a brightness wave
// moves the other way.
type Swirl struct {
	Hue   uint16
	Phase float64
}

// Per-LED and per-frame steps of the animation.
const (
	ledHueStep     = 40
	ledPhaseStep   = 0.3
	frameHueStep   = 4
	framePhaseStep = -0.03
)

// Render paints the current state into f and advances the animation by one
// frame.
func (s *Swirl) Render(f Frame) {
	hue, phase := s.Hue, s.Phase
	for i := 0; i < f.LEDs(); i++ {
		r, g, b := HueToRGB(hue)
		level := Brightness(phase)
		f.Set(i, scale(r, level), scale(g, level), scale(b, level))
		hue = (hue + ledHueStep) % HueWheel
		phase += ledPhaseStep
	}
	s.Hue = (s.Hue + frameHueStep) % HueWheel
	s.Phase += framePhaseStep
}

type flusher interface {
	Flush() error
}

// Stream renders and writes frames to w, waiting delay between frames, until
// frames have been sent or ctx is done. A negative frames count streams
// until cancellation. If w can Flush, every frame is flushed before the
// next one is rendered. The first write error ends the stream.
func Stream(ctx context.Context, w io.Writer, s *Swirl, f Frame, frames int, delay time.Duration) error {
	fl, _ := w.(flusher)
	ticker := time.NewTicker(max(delay, time.Millisecond))
	defer ticker.Stop()

	for sent := 0; frames < 0 || sent < frames; sent++ {
		if sent > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		s.Render(f)
		if err := comport.WriteAll(w, f); err != nil {
			return fmt.Errorf("frame %d: %w", sent, err)
		}
		if fl != nil {
			if err := fl.Flush(); err != nil {
				return fmt.Errorf("frame %d: %w", sent, err)
			}
		}
	}
	return nil
}
