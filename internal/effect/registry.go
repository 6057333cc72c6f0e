package effect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/marsfan/busylight/internal/color"
)

// ErrUnknownEffect is returned by Lookup for names with no registered
// variant.
var ErrUnknownEffect = errors.New("unknown effect")

// Factory builds a variant instance. Variants that do not take a base
// color (spectrum) ignore c.
type Factory func(c color.Color, interval time.Duration) (Effect, error)

// registry is populated once at startup; variant names are matched
// case-insensitively by Lookup.
var registry = map[string]Factory{
	"steady": func(c color.Color, d time.Duration) (Effect, error) {
		return NewSteady(c, d), nil
	},
	"blink": func(c color.Color, d time.Duration) (Effect, error) {
		return NewBlink(c, color.Black, d), nil
	},
	"gradient": func(c color.Color, d time.Duration) (Effect, error) {
		return NewGradient(c, DefaultGradientSteps, d)
	},
	"spectrum": func(_ color.Color, d time.Duration) (Effect, error) {
		return NewSpectrum(DefaultSpectrumSteps, d)
	},
}

// List returns all registered variant names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds the factory for name, matching case-insensitively.
func Lookup(name string) (Factory, error) {
	for candidate, factory := range registry {
		if strings.EqualFold(candidate, name) {
			return factory, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownEffect)
}
