package effect

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marsfan/busylight/internal/color"
)

// countingWriter records frames and cancels the loop once limit frames
// have been written.
type countingWriter struct {
	mu     sync.Mutex
	colors []color.Color
	limit  int
	cancel context.CancelFunc
	err    error
}

func (w *countingWriter) SetColor(c color.Color) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.colors = append(w.colors, c)
	if len(w.colors) >= w.limit {
		w.cancel()
	}
	return nil
}

func (w *countingWriter) recorded() []color.Color {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]color.Color(nil), w.colors...)
}

func TestRunCyclesInOrder(t *testing.T) {
	seq := []color.Color{
		{Red: 1}, {Green: 2}, {Blue: 3},
	}
	e, err := NewCustom("triple", seq, time.Millisecond)
	require.NoError(t, err)

	const frames = 8
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &countingWriter{limit: frames, cancel: cancel}

	err = Run(ctx, e, w)
	assert.ErrorIs(t, err, context.Canceled)

	got := w.recorded()
	require.Len(t, got, frames)
	for i, c := range got {
		assert.Equal(t, seq[i%len(seq)], c, "frame %d", i)
	}
}

func TestRunRestartsAtFirstColor(t *testing.T) {
	seq := []color.Color{{Red: 10}, {Red: 20}}
	e, err := NewCustom("pair", seq, time.Millisecond)
	require.NoError(t, err)

	for run := 0; run < 2; run++ {
		ctx, cancel := context.WithCancel(context.Background())
		w := &countingWriter{limit: 3, cancel: cancel}
		_ = Run(ctx, e, w)
		cancel()
		require.Equal(t, seq[0], w.recorded()[0], "run %d", run)
	}
}

func TestRunStopsOnWriteError(t *testing.T) {
	boom := errors.New("gone")
	e := NewSteady(color.Color{Red: 1}, time.Millisecond)
	w := &countingWriter{limit: 1000, err: boom, cancel: func() {}}

	err := Run(context.Background(), e, w)
	assert.ErrorIs(t, err, boom)
}

func TestRunFloorsZeroInterval(t *testing.T) {
	// A zero interval must still yield between frames rather than
	// spinning; the loop should make steady progress and remain
	// cancellable.
	e := NewSteady(color.Color{Red: 1}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	w := &countingWriter{limit: 5, cancel: cancel}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, e, w) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("zero-interval loop did not observe cancellation")
	}
}

func TestRunHonorsSubMillisecondIntervals(t *testing.T) {
	// only a zero interval is floored; a configured short interval
	// runs at its configured pace
	e := NewSteady(color.Color{Red: 1}, 100*time.Microsecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const frames = 100
	w := &countingWriter{limit: frames, cancel: cancel}
	start := time.Now()
	err := Run(ctx, e, w)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.Canceled)
	// the zero-interval floor would stretch this to at least
	// frames * 1ms
	assert.Less(t, elapsed, frames*time.Millisecond*8/10,
		"configured sub-millisecond interval was clamped")
}

func TestNewCustomRejectsEmptySequence(t *testing.T) {
	_, err := NewCustom("empty", nil, 0)
	assert.ErrorIs(t, err, ErrNoColors)
}

func TestSetIntervalClampsNegative(t *testing.T) {
	e := NewSteady(color.Color{Red: 1}, time.Second)
	e.SetInterval(-time.Second)
	assert.Equal(t, time.Duration(0), e.Interval())
}

func TestGradientShape(t *testing.T) {
	e, err := NewGradient(color.Color{Red: 200}, 4, 0)
	require.NoError(t, err)

	colors := e.Colors()
	require.Len(t, colors, 7)
	assert.Equal(t, color.Color{Red: 200}, colors[3], "peak is the full color")
	assert.Equal(t, colors[0], colors[len(colors)-1], "ramp is symmetric")

	_, err = NewGradient(color.Color{Red: 200}, 0, 0)
	assert.ErrorIs(t, err, ErrNoColors)
}

func TestSpectrumIsNonEmpty(t *testing.T) {
	e, err := NewSpectrum(DefaultSpectrumSteps, 0)
	require.NoError(t, err)
	assert.Len(t, e.Colors(), DefaultSpectrumSteps)

	_, err = NewSpectrum(0, 0)
	assert.ErrorIs(t, err, ErrNoColors)
}
