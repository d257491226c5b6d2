package adalight

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewFrameHeader(t *testing.T) {
	tests := []struct {
		leds   int
		header []byte
	}{
		{1, []byte{'A', 'd', 'a', 0x00, 0x00, 0x55}},
		{32, []byte{0x41, 0x64, 0x61, 0x00, 0x1F, 0x4A}},
		{256, []byte{'A', 'd', 'a', 0x00, 0xFF, 0xAA}},
		{257, []byte{'A', 'd', 'a', 0x01, 0x00, 0x54}},
		{MaxLEDs, []byte{'A', 'd', 'a', 0xFF, 0xFF, 0x55}},
	}
	for _, tt := range tests {
		f, err := NewFrame(tt.leds)
		if err != nil {
			t.Fatalf("NewFrame(%d): %v", tt.leds, err)
		}
		if !bytes.Equal(f[:HeaderSize], tt.header) {
			t.Errorf("NewFrame(%d) header = % X, want % X", tt.leds, f[:HeaderSize], tt.header)
		}
		if len(f) != HeaderSize+PixelSize*tt.leds {
			t.Errorf("NewFrame(%d) length = %d", tt.leds, len(f))
		}
		if f.LEDs() != tt.leds || !f.Valid() {
			t.Errorf("NewFrame(%d): LEDs()=%d Valid()=%v", tt.leds, f.LEDs(), f.Valid())
		}
	}
}

func TestNewFrameRange(t *testing.T) {
	for _, n := range []int{0, -1, MaxLEDs + 1} {
		if _, err := NewFrame(n); !errors.Is(err, ErrLEDCount) {
			t.Errorf("NewFrame(%d): expected ErrLEDCount, got %v", n, err)
		}
	}
}

func TestFrameValidDetectsDamage(t *testing.T) {
	f, _ := NewFrame(4)
	f[5] ^= 1
	if f.Valid() {
		t.Error("bad checksum accepted")
	}
	g, _ := NewFrame(4)
	if Frame(g[:len(g)-3]).Valid() {
		t.Error("truncated frame accepted")
	}
}

func TestHueToRGB(t *testing.T) {
	tests := []struct {
		hue     uint16
		r, g, b uint8
	}{
		{0, 255, 0, 0},
		{128, 255, 128, 0},
		{256, 255, 255, 0},
		{512, 0, 255, 0},
		{768, 0, 255, 255},
		{1024, 0, 0, 255},
		{1280, 255, 0, 255},
		{1535, 255, 0, 0},
		{1536, 255, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := HueToRGB(tt.hue)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("HueToRGB(%d) = (%d,%d,%d), want (%d,%d,%d)", tt.hue, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestBrightness(t *testing.T) {
	if got := Brightness(math.Pi / 2); math.Abs(got-1) > 1e-9 {
		t.Errorf("Brightness(pi/2) = %v, want 1", got)
	}
	if got := Brightness(-math.Pi / 2); got > 1e-9 {
		t.Errorf("Brightness(-pi/2) = %v, want 0", got)
	}
	if got, want := Brightness(0), math.Pow(0.5, 2.8); math.Abs(got-want) > 1e-12 {
		t.Errorf("Brightness(0) = %v, want %v", got, want)
	}
}

func TestSwirlRender(t *testing.T) {
	f, _ := NewFrame(3)
	s := &Swirl{Phase: math.Pi / 2}
	s.Render(f)

	if r, g, b := f.Pixel(0); r != 255 || g != 0 || b != 0 {
		t.Errorf("LED 0 = (%d,%d,%d), want full red", r, g, b)
	}
	// LED 1 sits at hue 40 and phase pi/2+0.3.
	level := Brightness(math.Pi/2 + 0.3)
	if r, g, _ := f.Pixel(1); r != uint8(255*level) || g != uint8(40*level) {
		t.Errorf("LED 1 = (%d,%d), want (%d,%d)", r, g, uint8(255*level), uint8(40*level))
	}
	if s.Hue != 4 || math.Abs(s.Phase-(math.Pi/2-0.03)) > 1e-12 {
		t.Errorf("state after one frame = %+v", *s)
	}
	if !f.Valid() {
		t.Error("Render damaged the header")
	}
}

func TestSwirlHueWraps(t *testing.T) {
	f, _ := NewFrame(1)
	s := &Swirl{Hue: HueWheel - 2}
	s.Render(f)
	if s.Hue != 2 {
		t.Errorf("Hue = %d, want 2", s.Hue)
	}
}

func TestSwirlLongStripStaysOnWheel(t *testing.T) {
	// LED 1639 is the first whose hue passes 65535 when summed without
	// reducing: 1639*40 = 65560, which is 1048 on the wheel.
	const led = 1639
	f, _ := NewFrame(led + 1)
	(&Swirl{}).Render(f)

	phase := 0.0
	for i := 0; i < led; i++ {
		phase += ledPhaseStep
	}
	single, _ := NewFrame(1)
	(&Swirl{Hue: led * ledHueStep % HueWheel, Phase: phase}).Render(single)

	r, g, b := f.Pixel(led)
	wr, wg, wb := single.Pixel(0)
	if r != wr || g != wg || b != wb {
		t.Errorf("LED %d = (%d,%d,%d), want (%d,%d,%d)", led, r, g, b, wr, wg, wb)
	}
}

type recordingWriter struct {
	bytes.Buffer
	flushes int
	failAt  int
	writes  int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.failAt > 0 && w.writes == w.failAt {
		return 0, errors.New("device gone")
	}
	return w.Buffer.Write(p)
}

func (w *recordingWriter) Flush() error {
	w.flushes++
	return nil
}

func TestStream(t *testing.T) {
	f, _ := NewFrame(8)
	w := &recordingWriter{}
	if err := Stream(context.Background(), w, &Swirl{}, f, 5, time.Millisecond); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if w.Len() != 5*len(f) {
		t.Errorf("wrote %d bytes, want %d", w.Len(), 5*len(f))
	}
	if w.flushes != 5 {
		t.Errorf("flushed %d times, want 5", w.flushes)
	}
	for i := 0; i < 5; i++ {
		if !Frame(w.Bytes()[i*len(f) : (i+1)*len(f)]).Valid() {
			t.Errorf("frame %d is not valid", i)
		}
	}
}

func TestStreamStopsOnWriteError(t *testing.T) {
	f, _ := NewFrame(2)
	w := &recordingWriter{failAt: 3}
	err := Stream(context.Background(), w, &Swirl{}, f, 10, time.Millisecond)
	if err == nil {
		t.Fatal("expected an error")
	}
	if w.writes != 3 || w.Len() != 2*len(f) {
		t.Errorf("writes=%d bytes=%d, expected to stop at the failing frame", w.writes, w.Len())
	}
}

func TestStreamCancel(t *testing.T) {
	f, _ := NewFrame(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Stream(ctx, &recordingWriter{}, &Swirl{}, f, -1, time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
