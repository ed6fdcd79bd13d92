// Package task provides a schedulable unit of work with uniform
// completion and cancellation semantics over any sched.Scheduler.
//
// A Task wraps a function, hands it to its scheduler on Start, and exposes
// the eventual outcome through a result.Result. Cancellation before start
// prevents the function from ever running; cancellation during a run is
// advisory and only takes effect if the function observes its context and
// returns the scheduler's cancelled-error kind.
package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/notorious-go/capacity/result"
	"github.com/notorious-go/capacity/sched"
)

// Errors reported by Task.
var (
	// ErrAlreadyStarted is returned by Start on a task that was started
	// before.
	ErrAlreadyStarted = errors.New("task: already started")

	// ErrCancelled is the failure recorded on a task's Result when the
	// task was cancelled before its function produced an outcome.
	ErrCancelled = errors.New("task: cancelled")
)

// State is a task's lifecycle state.
//
// The machine is: Pending -> Running -> Done, with Pending -> Cancelled
// when a cancel arrives before start, and Running -> Cancelled only when
// the running function honours the cancel request. Done and Cancelled are
// terminal.
type State int32

const (
	Pending State = iota
	Running
	Done
	Cancelled
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// A Task runs a function under a scheduler and carries its eventual
// outcome. Create one with New, begin it with Start. All methods are safe
// for concurrent use.
type Task[T any] struct {
	fn  func(context.Context) (T, error)
	sch sched.Scheduler

	// state is read lock-free by the query methods; every transition
	// happens under mu so that terminal bookkeeping is atomic with it.
	state atomic.Int32

	mu              sync.Mutex
	handle          sched.Running
	cancelRequested bool

	res *result.Result[T]
	// verdict resolves once the task reaches a terminal state, with
	// whether that state is Cancelled. Returned by Cancel.
	verdict *result.Result[bool]
}

// New creates a pending Task that will run fn under s when started. A nil
// scheduler defaults to sched.Goroutines.
func New[T any](s sched.Scheduler, fn func(context.Context) (T, error)) *Task[T] {
	if s == nil {
		s = sched.Goroutines{}
	}
	return &Task[T]{
		fn:      fn,
		sch:     s,
		res:     result.New[T](),
		verdict: result.New[bool](),
	}
}

// Start hands the task's function to the scheduler. It returns
// ErrAlreadyStarted on a second call and ErrCancelled when a cancel
// request arrived first, in which case the function will never run.
func (t *Task[T]) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch State(t.state.Load()) {
	case Cancelled:
		return ErrCancelled
	case Running, Done:
		return ErrAlreadyStarted
	}
	t.state.Store(int32(Running))
	handle := t.sch.Schedule(t.run)
	t.handle = handle
	// An adapter may abandon queued work after a cancel request without
	// ever running it; the watcher converts that into a terminal state so
	// no observer waits forever.
	go t.watch(handle)
	return nil
}

func (t *Task[T]) run(ctx context.Context) {
	v, err := t.fn(ctx)
	t.finish(v, err)
}

// finish records the function's outcome. An error matching the
// scheduler's cancelled kind counts as an honoured cancellation only if
// a cancel was actually requested; a function failing with a stray
// cancelled error on its own is an ordinary failure.
func (t *Task[T]) finish(v T, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if State(t.state.Load()) != Running {
		return
	}
	cancelled := t.cancelRequested && sched.IsCancelled(t.sch, err)
	switch {
	case cancelled:
		t.state.Store(int32(Cancelled))
		t.res.Fail(err)
	case err != nil:
		t.state.Store(int32(Done))
		t.res.Fail(err)
	default:
		t.state.Store(int32(Done))
		t.res.Complete(v)
	}
	t.verdict.Complete(cancelled)
}

// watch resolves the task if the scheduler finished the execution without
// the function ever reporting, which happens when cancelled work is
// abandoned while still queued.
func (t *Task[T]) watch(handle sched.Running) {
	<-handle.Done()
	t.mu.Lock()
	defer t.mu.Unlock()
	if State(t.state.Load()) != Running {
		return
	}
	t.state.Store(int32(Cancelled))
	t.res.Fail(ErrCancelled)
	t.verdict.Complete(true)
}

// Cancel requests cancellation and returns a Result that resolves, once
// the task reaches a terminal state, with whether the task ended
// Cancelled.
//
// Cancelling a pending task moves it to Cancelled immediately and its
// function never runs. Cancelling a running task is advisory: the
// function keeps running unless it observes its context. Cancel is
// idempotent; repeated calls, including on finished tasks, have no
// further effect and return the same Result.
func (t *Task[T]) Cancel() *result.Result[bool] {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch State(t.state.Load()) {
	case Pending:
		t.cancelRequested = true
		t.state.Store(int32(Cancelled))
		t.res.Fail(ErrCancelled)
		t.verdict.Complete(true)
	case Running:
		if !t.cancelRequested {
			t.cancelRequested = true
			t.handle.RequestCancel()
		}
	}
	return t.verdict
}

// State returns the task's lifecycle state at the time of the call. The
// state may change immediately after; callers must tolerate staleness.
func (t *Task[T]) State() State { return State(t.state.Load()) }

// Pending reports whether the task has not been started or cancelled yet.
func (t *Task[T]) Pending() bool { return t.State() == Pending }

// Running reports whether the task's function is currently executing.
func (t *Task[T]) Running() bool { return t.State() == Running }

// Done reports whether the task finished, normally or with a failure.
// Cancelled tasks are not Done.
func (t *Task[T]) Done() bool { return t.State() == Done }

// Cancelled reports whether the task ended cancelled.
func (t *Task[T]) Cancelled() bool { return t.State() == Cancelled }

// Result returns the task's outcome cell. It resolves with the function's
// value, the function's failure, or ErrCancelled (or the scheduler's
// cancelled-error kind) when the task was cancelled.
func (t *Task[T]) Result() *result.Result[T] { return t.res }

// Wait is shorthand for Result().Wait(ctx).
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	return t.res.Wait(ctx)
}
