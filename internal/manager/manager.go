package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/effect"
	"github.com/marsfan/busylight/internal/light"
	"github.com/marsfan/busylight/internal/logging"
)

var logger = logging.New("manager")

// Finder probes for all currently connectable lights of one variant.
// Implementations report per-unit failures themselves and exclude the
// failing unit rather than failing the whole probe.
type Finder interface {
	Find(ctx context.Context) ([]light.Light, error)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(ctx context.Context) ([]light.Light, error)

func (f FinderFunc) Find(ctx context.Context) ([]light.Light, error) { return f(ctx) }

// Manager owns an ordered set of discovered lights and supervises
// concurrent color and effect application across them. Lights keep
// their positional index for the lifetime of the manager; newly
// discovered lights are appended at the end.
type Manager struct {
	finder Finder
	greedy bool

	mu     sync.Mutex
	lights []light.Light
}

type Option func(*Manager)

// WithGreedy controls whether Update probes for newly attached lights.
// Managers are greedy by default.
func WithGreedy(greedy bool) Option {
	return func(m *Manager) { m.greedy = greedy }
}

func New(finder Finder, opts ...Option) *Manager {
	m := &Manager{
		finder: finder,
		greedy: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lights returns a snapshot of the tracked lights in index order.
func (m *Manager) Lights() []light.Light {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]light.Light(nil), m.lights...)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lights)
}

// Update surveys the tracked lights and, when the manager is greedy,
// probes for newly attached ones. New lights are appended after the
// existing ones so indices held by callers stay valid. It returns the
// number of new, still-active and now-inactive lights.
func (m *Manager) Update(ctx context.Context) (countNew, countActive, countInactive int) {
	var found []light.Light
	if m.greedy {
		var err error
		found, err = m.finder.Find(ctx)
		if err != nil {
			logger.With(zap.Error(err)).Warn("Light discovery failed")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.lights {
		if l.IsPluggedIn() {
			countActive++
		} else {
			countInactive++
		}
	}

	known := make(map[string]bool, len(m.lights))
	for _, l := range m.lights {
		known[l.ID()] = true
	}
	for _, l := range found {
		if known[l.ID()] {
			// same physical unit rediscovered; drop the extra handle
			_ = l.Close()
			continue
		}
		known[l.ID()] = true
		m.lights = append(m.lights, l)
		countNew++
		logger.With(zap.String("light", l.Name()), zap.String("id", l.ID())).Info("Tracking new light")
	}

	return countNew, countActive, countInactive
}

// SelectedLights resolves positional indices to lights. With no
// indices every tracked light is selected. Out-of-range indices are
// logged and skipped; only an empty result is an error.
func (m *Manager) SelectedLights(indices ...int) ([]light.Light, error) {
	tracked := m.Lights()

	if len(indices) == 0 {
		if len(tracked) == 0 {
			return nil, light.ErrNoLightsFound
		}
		return tracked, nil
	}

	selected := make([]light.Light, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(tracked) {
			logger.With(zap.Int("index", i), zap.Int("tracked", len(tracked))).
				Debug("Skipping light index out of range")
			continue
		}
		selected = append(selected, tracked[i])
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("indices %v: %w", indices, light.ErrNoLightsFound)
	}
	return selected, nil
}

type applyOptions struct {
	indices []int
	timeout time.Duration
	wait    bool
}

type ApplyOption func(*applyOptions)

// WithLights restricts an operation to the lights at the given
// positional indices.
func WithLights(indices ...int) ApplyOption {
	return func(o *applyOptions) { o.indices = indices }
}

// WithTimeout bounds how long the call blocks on the group. It does
// not stop the underlying tasks.
func WithTimeout(d time.Duration) ApplyOption {
	return func(o *applyOptions) { o.timeout = d }
}

// NoWait installs the work and returns immediately instead of
// awaiting the group.
func NoWait() ApplyOption {
	return func(o *applyOptions) { o.wait = false }
}

func newApplyOptions(opts []ApplyOption) applyOptions {
	o := applyOptions{wait: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ApplyColor writes c to every selected light concurrently. A failing
// light is logged and does not keep the color from reaching its
// siblings. Any asynchronous write tasks the lights spawned are then
// awaited as a group, bounded by the optional timeout.
func (m *Manager) ApplyColor(ctx context.Context, c color.Color, opts ...ApplyOption) error {
	o := newApplyOptions(opts)
	selected, err := m.SelectedLights(o.indices...)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, l := range selected {
		wg.Add(1)
		go func(l light.Light) {
			defer wg.Done()
			if err := l.SetColor(c); err != nil {
				logger.With(zap.String("light", l.Name()), zap.Error(err)).
					Warn("Failed to set color")
			}
		}(l)
	}
	wg.Wait()

	if o.wait {
		awaitTasks(ctx, gatherTasks(selected), o.timeout)
	}
	return nil
}

// ApplyEffect installs e on every selected light, first cancelling and
// awaiting whatever was running there, so at most one effect drives a
// light at a time. Unless NoWait is given the call then blocks on the
// whole group; effect loops never finish on their own, so that wait
// ends only via the timeout.
func (m *Manager) ApplyEffect(ctx context.Context, e effect.Effect, opts ...ApplyOption) error {
	o := newApplyOptions(opts)
	selected, err := m.SelectedLights(o.indices...)
	if err != nil {
		return err
	}

	for _, l := range selected {
		l.CancelTasks()

		l := l
		l.AddTask(e.Name(), func(ctx context.Context) error {
			err := effect.Run(ctx, e, l)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.With(zap.String("light", l.Name()),
					zap.String("effect", e.Name()), zap.Error(err)).
					Warn("Effect loop stopped")
			}
			return err
		})
	}

	if o.wait {
		awaitTasks(ctx, gatherTasks(selected), o.timeout)
	}
	return nil
}

// Off turns the selected lights off. Running effect tasks are left
// alone and will overwrite the off state at their next frame; callers
// that want the lights to stay dark stop the effect as well.
func (m *Manager) Off(opts ...ApplyOption) error {
	o := newApplyOptions(opts)
	selected, err := m.SelectedLights(o.indices...)
	if err != nil {
		return err
	}

	for _, l := range selected {
		if err := l.TurnOff(); err != nil {
			logger.With(zap.String("light", l.Name()), zap.Error(err)).
				Warn("Failed to turn off light")
		}
	}
	return nil
}

// Release cancels every task on every tracked light, closes the
// handles and drops the list. Safe to call repeatedly.
func (m *Manager) Release() error {
	m.mu.Lock()
	lights := m.lights
	m.lights = nil
	m.mu.Unlock()

	var errs error
	for _, l := range lights {
		l.CancelTasks()
		errs = multierr.Append(errs, l.Close())
	}
	return errs
}

func gatherTasks(lights []light.Light) []*light.Task {
	var tasks []*light.Task
	for _, l := range lights {
		for _, t := range l.Tasks() {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// awaitTasks blocks until every task has finished, the timeout
// elapses, or ctx is done. Expiry stops the waiting only; the tasks
// themselves keep running until cancelled. The tasks are drained in
// place, one shared timer bounding the whole group, so an expired wait
// leaves nothing behind.
func awaitTasks(ctx context.Context, tasks []*light.Task, timeout time.Duration) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for _, t := range tasks {
		select {
		case <-t.Done():
		case <-expired:
			return
		case <-ctx.Done():
			return
		}
	}
}
