package effect

import (
	"fmt"
	"math"
	"time"

	"github.com/marsfan/busylight/internal/color"
)

const (
	DefaultGradientSteps = 16
	DefaultSpectrumSteps = 64
)

// NewSteady holds a single color indefinitely.
func NewSteady(c color.Color, interval time.Duration) Effect {
	e, _ := newCycle("steady", []color.Color{c}, interval)
	return e
}

// NewBlink alternates between on and off every frame.
func NewBlink(on, off color.Color, interval time.Duration) Effect {
	e, _ := newCycle("blink", []color.Color{on, off}, interval)
	return e
}

// NewGradient ramps from dark up to c over steps frames and back down
// again.
func NewGradient(c color.Color, steps int, interval time.Duration) (Effect, error) {
	if steps < 1 {
		return nil, fmt.Errorf("gradient: %w", ErrNoColors)
	}

	colors := make([]color.Color, 0, 2*steps-1)
	for i := 1; i <= steps; i++ {
		colors = append(colors, c.Scale(float64(i)/float64(steps)))
	}
	for i := steps - 1; i >= 1; i-- {
		colors = append(colors, c.Scale(float64(i)/float64(steps)))
	}

	return newCycle("gradient", colors, interval)
}

// NewSpectrum walks a rainbow generated from three phase-shifted sine
// waves, one per channel.
func NewSpectrum(steps int, interval time.Duration) (Effect, error) {
	if steps < 1 {
		return nil, fmt.Errorf("spectrum: %w", ErrNoColors)
	}

	const (
		frequency = 0.3
		width     = 127.0
		center    = 128.0
	)

	colors := make([]color.Color, 0, steps)
	for i := 0; i < steps; i++ {
		x := frequency * float64(i)
		r := math.Sin(x)*width + center
		g := math.Sin(x+2*math.Pi/3)*width + center
		b := math.Sin(x+4*math.Pi/3)*width + center
		colors = append(colors, color.RGB(uint8(r), uint8(g), uint8(b)))
	}

	return newCycle("spectrum", colors, interval)
}

// NewCustom wraps a caller-supplied color sequence as an effect.
func NewCustom(name string, colors []color.Color, interval time.Duration) (Effect, error) {
	return newCycle(name, colors, interval)
}
