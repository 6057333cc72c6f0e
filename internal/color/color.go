package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGB triple with 8 bits per channel.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

var Black = Color{}

func RGB(r, g, b uint8) Color {
	return Color{Red: r, Green: g, Blue: b}
}

var names = map[string]Color{
	"black":   {0x00, 0x00, 0x00},
	"blue":    {0x00, 0x00, 0xFF},
	"cyan":    {0x00, 0xFF, 0xFF},
	"green":   {0x00, 0x80, 0x00},
	"magenta": {0xFF, 0x00, 0xFF},
	"orange":  {0xFF, 0xA5, 0x00},
	"purple":  {0x80, 0x00, 0x80},
	"red":     {0xFF, 0x00, 0x00},
	"white":   {0xFF, 0xFF, 0xFF},
	"yellow":  {0xFF, 0xFF, 0x00},
}

// Parse accepts a color name, "#rgb", "#rrggbb" or "0xrrggbb".
func Parse(value string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if c, ok := names[s]; ok {
		return c, nil
	}

	hex := s
	switch {
	case strings.HasPrefix(s, "#"):
		hex = s[1:]
	case strings.HasPrefix(s, "0x"):
		hex = s[2:]
	}

	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6:
	default:
		return Color{}, fmt.Errorf("unrecognized color %q", value)
	}

	v, err := strconv.ParseUint(hex, 16, 24)
	if err != nil {
		return Color{}, fmt.Errorf("unrecognized color %q: %w", value, err)
	}

	return Color{
		Red:   uint8(v >> 16),
		Green: uint8(v >> 8),
		Blue:  uint8(v),
	}, nil
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

func (c Color) String() string {
	return c.Hex()
}

// Scale returns the color with every channel multiplied by f,
// clamped to [0, 1].
func (c Color) Scale(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	return Color{
		Red:   uint8(math.Round(float64(c.Red) * f)),
		Green: uint8(math.Round(float64(c.Green) * f)),
		Blue:  uint8(math.Round(float64(c.Blue) * f)),
	}
}

// HSB converts the color to 16-bit hue, saturation and brightness as
// used by LAN lighting protocols.
func (c Color) HSB() (uint16, uint16, uint16) {
	red := float64(c.Red) / 255.0
	green := float64(c.Green) / 255.0
	blue := float64(c.Blue) / 255.0

	max := math.Max(red, math.Max(green, blue))
	min := math.Min(red, math.Min(green, blue))
	delta := max - min

	var h, s float64
	v := max // Brightness is the max of RGB

	if delta != 0 {
		s = delta / max // Saturation is degree of variation from grey.

		deltaR := (((max - red) / 6) + (delta / 2)) / delta
		deltaG := (((max - green) / 6) + (delta / 2)) / delta
		deltaB := (((max - blue) / 6) + (delta / 2)) / delta

		if red == max {
			h = deltaB - deltaG
		} else if green == max {
			h = (1.0 / 3.0) + deltaR - deltaB
		} else {
			h = (2.0 / 3.0) + deltaG - deltaR
		}

		if h < 0 {
			h += 1
		}
		if h > 1 {
			h -= 1
		}
	}

	hue := uint16(math.Round(h * 0xFFFF))
	saturation := uint16(math.Round(s * 0xFFFF))
	brightness := uint16(math.Round(v * 0xFFFF))

	return hue, saturation, brightness
}
