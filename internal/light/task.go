package light

import (
	"context"
	"sync"
)

// TaskFunc is the body of a background task. It must return promptly
// once ctx is cancelled; the sleep between effect frames is the usual
// place that happens.
type TaskFunc func(ctx context.Context) error

// Task is a handle to one running background activity on a light.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (t *Task) Name() string { return t.name }

// Done is closed once the task body has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err reports how the task ended, or nil while it is still running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Cancel requests cooperative cancellation without waiting.
func (t *Task) Cancel() { t.cancel() }

// CancelAndWait cancels the task and blocks until its body has
// unwound. On return the task will issue no further device writes.
func (t *Task) CancelAndWait() {
	t.cancel()
	<-t.done
}

// TaskRunner implements Tasker and is embedded by light
// implementations. The zero value is ready to use.
//
// slotMu serializes whole cancel-then-install (and cancel-all)
// sequences so two concurrent installers cannot both observe the same
// slot state and orphan a running task; mu guards only the map and may
// be taken while slotMu is held. Task bodies never call back into the
// runner, so holding slotMu across CancelAndWait cannot deadlock.
type TaskRunner struct {
	slotMu sync.Mutex
	mu     sync.Mutex
	tasks  map[string]*Task
}

// AddTask starts fn under name. If a task is already registered under
// that name it is cancelled and awaited first, so writes from the old
// task never interleave with the new one's.
func (r *TaskRunner) AddTask(name string, fn TaskFunc) *Task {
	r.slotMu.Lock()
	defer r.slotMu.Unlock()

	r.mu.Lock()
	prev := r.tasks[name]
	r.mu.Unlock()
	if prev != nil {
		prev.CancelAndWait()
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		t.err = fn(ctx)
		close(t.done)
	}()

	r.mu.Lock()
	if r.tasks == nil {
		r.tasks = make(map[string]*Task)
	}
	r.tasks[name] = t
	r.mu.Unlock()

	return t
}

// CancelTask cancels and awaits the task registered under name, if
// any, and removes it from the slot.
func (r *TaskRunner) CancelTask(name string) {
	r.slotMu.Lock()
	defer r.slotMu.Unlock()

	r.mu.Lock()
	t := r.tasks[name]
	delete(r.tasks, name)
	r.mu.Unlock()

	if t != nil {
		t.CancelAndWait()
	}
}

// CancelTasks cancels and awaits every task on this light, clearing
// the slot. When it returns, no previously running task will write to
// the device again.
func (r *TaskRunner) CancelTasks() {
	r.slotMu.Lock()
	defer r.slotMu.Unlock()

	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()

	for _, t := range tasks {
		t.CancelAndWait()
	}
}

// Tasks returns a snapshot of the current name to task mapping.
func (r *TaskRunner) Tasks() map[string]*Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*Task, len(r.tasks))
	for name, t := range r.tasks {
		out[name] = t
	}
	return out
}
