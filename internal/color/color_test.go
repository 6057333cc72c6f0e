package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", Color{0xFF, 0x00, 0x00}},
		{"RED", Color{0xFF, 0x00, 0x00}},
		{"green", Color{0x00, 0x80, 0x00}},
		{"#ff8000", Color{0xFF, 0x80, 0x00}},
		{"#F80", Color{0xFF, 0x88, 0x00}},
		{"0x00ff00", Color{0x00, 0xFF, 0x00}},
		{" white ", Color{0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		c, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, c, tt.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "nope", "#12", "#12345", "0xzzzzzz"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestScale(t *testing.T) {
	c := Color{200, 100, 50}
	assert.Equal(t, Color{100, 50, 25}, c.Scale(0.5))
	assert.Equal(t, c, c.Scale(1))
	assert.Equal(t, Black, c.Scale(0))
	// out of range factors clamp rather than wrap
	assert.Equal(t, c, c.Scale(2))
	assert.Equal(t, Black, c.Scale(-1))
}

func TestHSB(t *testing.T) {
	h, s, b := Color{0xFF, 0x00, 0x00}.HSB()
	assert.Equal(t, uint16(0), h)
	assert.Equal(t, uint16(0xFFFF), s)
	assert.Equal(t, uint16(0xFFFF), b)

	_, s, b = Color{0x80, 0x80, 0x80}.HSB()
	assert.Equal(t, uint16(0), s)
	assert.InDelta(t, 0x8080, b, 1)
}
