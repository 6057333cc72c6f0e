package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marsfan/busylight/internal/color"
)

func TestListVariants(t *testing.T) {
	assert.Equal(t, []string{"blink", "gradient", "spectrum", "steady"}, List())
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	upper, err := Lookup("SPECTRUM")
	require.NoError(t, err)
	lower, err := Lookup("spectrum")
	require.NoError(t, err)

	a, err := upper(color.Black, time.Second)
	require.NoError(t, err)
	b, err := lower(color.Black, time.Second)
	require.NoError(t, err)

	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.Colors(), b.Colors())
}

func TestLookupUnknownEffect(t *testing.T) {
	_, err := Lookup("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestFactoriesBuildNamedVariants(t *testing.T) {
	for _, name := range List() {
		factory, err := Lookup(name)
		require.NoError(t, err)

		e, err := factory(color.Color{Red: 0xFF}, 250*time.Millisecond)
		require.NoError(t, err, name)
		assert.Equal(t, name, e.Name())
		assert.NotEmpty(t, e.Colors(), name)
		assert.Equal(t, 250*time.Millisecond, e.Interval(), name)
	}
}
