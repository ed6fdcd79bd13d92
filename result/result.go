// Package result provides a one-shot container for an eventual value or
// failure.
//
// A Result is created empty, resolved exactly once by its producer with
// Complete or Fail, and observed any number of times by consumers. Two
// wait forms are offered: a context-aware Wait for callers that suspend on
// cancellation signals, and a timeout-bounded WaitTimeout for callers that
// simply block. The Done channel supports select-based composition:
//
//	select {
//	case <-r.Done():
//		v, err := r.Peek()
//	case <-ctx.Done():
//		// gave up
//	}
package result

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Errors reported by Result.
var (
	// ErrAlreadyResolved is returned by Complete and Fail when the Result
	// was resolved before. The first outcome always stands.
	ErrAlreadyResolved = errors.New("result: already resolved")

	// ErrTimedOut is returned by WaitTimeout when the Result was not
	// resolved within the given duration.
	ErrTimedOut = errors.New("result: wait timed out")
)

// Resolution states. The resolving state covers the short window between
// winning the resolution race and publishing the outcome; consumers never
// observe it because they synchronize on the done channel, not the state.
const (
	stateEmpty int32 = iota
	stateResolving
	stateResolved
)

// A Result is a single-assignment cell holding an eventual value or
// failure. It must be created with New. All methods are safe for
// concurrent use.
type Result[T any] struct {
	state atomic.Int32
	value T
	err   error
	done  chan struct{}
}

// New creates an empty, unresolved Result.
func New[T any]() *Result[T] {
	return &Result[T]{done: make(chan struct{})}
}

// Complete resolves the Result with a value, waking all waiters. A second
// resolution attempt returns ErrAlreadyResolved and leaves the first
// outcome intact: double completion is a programming error and is
// surfaced, never silently absorbed.
func (r *Result[T]) Complete(v T) error {
	if !r.state.CompareAndSwap(stateEmpty, stateResolving) {
		return ErrAlreadyResolved
	}
	r.value = v
	r.state.Store(stateResolved)
	close(r.done)
	return nil
}

// Fail resolves the Result with a failure, waking all waiters. Like
// Complete, a second resolution attempt returns ErrAlreadyResolved.
func (r *Result[T]) Fail(err error) error {
	if !r.state.CompareAndSwap(stateEmpty, stateResolving) {
		return ErrAlreadyResolved
	}
	r.err = err
	r.state.Store(stateResolved)
	close(r.done)
	return nil
}

// Done returns a channel that is closed once the Result is resolved,
// successfully or not.
func (r *Result[T]) Done() <-chan struct{} { return r.done }

// Resolved reports whether the Result has been resolved, independent of
// whether it holds a value or a failure.
func (r *Result[T]) Resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Peek returns the outcome without waiting. ok is false while the Result
// is unresolved, in which case value and err are zero.
func (r *Result[T]) Peek() (value T, err error, ok bool) {
	select {
	case <-r.done:
		return r.value, r.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Wait suspends the caller until the Result resolves or ctx is done. It
// returns the producer's value, re-raises the producer's failure, or
// returns ctx.Err() if the wait itself was cancelled first.
func (r *Result[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitTimeout blocks the caller until the Result resolves, returning
// ErrTimedOut if d elapses first. A non-positive d polls: it returns the
// outcome if already resolved and ErrTimedOut otherwise.
func (r *Result[T]) WaitTimeout(d time.Duration) (T, error) {
	if v, err, ok := r.Peek(); ok {
		return v, err
	}
	var zero T
	if d <= 0 {
		return zero, ErrTimedOut
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-r.done:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrTimedOut
	}
}
