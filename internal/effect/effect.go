package effect

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/marsfan/busylight/internal/color"
)

// ErrNoColors is returned when a variant would be constructed with an
// empty color sequence.
var ErrNoColors = errors.New("effect has no colors")

// Effect describes an infinite, restartable sequence of colors paired
// with a per-frame display interval. A single instance may drive any
// number of lights at once; each light keeps its own cursor.
type Effect interface {
	Name() string
	Colors() []color.Color
	Interval() time.Duration
	SetInterval(time.Duration)
}

// Writer is the per-light sink an effect loop drives.
type Writer interface {
	SetColor(color.Color) error
}

// minFrame stands in for a zero interval, which means "as fast as
// allowed": the loop still has to yield so sibling loops are not
// starved and cancellation stays observable. Configured sub-minimum
// intervals are honored as given.
const minFrame = time.Millisecond

// Run cycles the effect's colors onto w forever: write a frame, sleep
// the frame interval, repeat. It always starts from the first color
// and returns only when ctx is cancelled (the cancellation is observed
// at the sleep) or a write fails.
func Run(ctx context.Context, e Effect, w Writer) error {
	colors := e.Colors()
	for i := 0; ; i++ {
		if err := w.SetColor(colors[i%len(colors)]); err != nil {
			return err
		}

		d := e.Interval()
		if d == 0 {
			d = minFrame
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// cycle is the shared base for all variants: a fixed non-empty color
// list plus a mutable interval. The interval is atomic because running
// loops read it while callers may adjust it.
type cycle struct {
	name     string
	colors   []color.Color
	interval atomic.Int64
}

func newCycle(name string, colors []color.Color, interval time.Duration) (*cycle, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoColors)
	}
	c := &cycle{name: name, colors: colors}
	c.SetInterval(interval)
	return c, nil
}

func (c *cycle) Name() string { return c.name }

func (c *cycle) Colors() []color.Color { return c.colors }

func (c *cycle) Interval() time.Duration {
	return time.Duration(c.interval.Load())
}

func (c *cycle) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.interval.Store(int64(d))
}

func (c *cycle) String() string {
	return fmt.Sprintf("%s interval=%s", c.name, c.Interval())
}
