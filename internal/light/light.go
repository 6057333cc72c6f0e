package light

import (
	"errors"

	"github.com/marsfan/busylight/internal/color"
)

var (
	// ErrNoLightsFound is returned when a selection resolves to zero
	// lights.
	ErrNoLightsFound = errors.New("no lights found")

	// ErrUnavailable is returned by writes to a light that is no
	// longer present.
	ErrUnavailable = errors.New("light unavailable")
)

// Light is a live connection to one physical indicator light. Writes
// are fire-and-forget; no acknowledgment is expected from the device.
//
// Every light also carries a task slot (Tasker) holding its named
// background activities, most importantly the currently running
// effect loop.
type Light interface {
	// ID is stable for the lifetime of the manager that discovered
	// the light.
	ID() string
	Name() string

	SetColor(c color.Color) error
	TurnOff() error

	IsPluggedIn() bool
	IsUnplugged() bool

	// Close releases the underlying device handle. Callers cancel the
	// light's tasks first.
	Close() error

	Tasker
}

// Tasker is the per-light registry of named background tasks. At most
// one task runs under a given name at any time.
type Tasker interface {
	AddTask(name string, fn TaskFunc) *Task
	CancelTask(name string)
	CancelTasks()
	Tasks() map[string]*Task
}
