// Package sched defines the scheduler-adapter contract consumed by the
// task package, together with two concrete adapters: Goroutines, which
// runs each scheduled function on its own goroutine, and Pool, which caps
// how many run at once.
//
// The contract exists so that code built on it never branches on "which
// runtime am I on": a task is written once against Scheduler and picks an
// adapter instance at construction. Adapters differ in how they execute
// work and in which error kinds their executions surface when cancelled or
// timed out; CancelledError and TimeoutError declare those kinds so that
// IsCancelled and IsTimeout can normalize across adapters. The mapping is
// fixed per adapter. It is ordinary per-instance state, never a process
// global.
package sched

import (
	"context"
	"errors"
)

// A Scheduler begins executing functions under some execution model.
//
// Schedule must not block: it hands the function off and returns a Running
// handle immediately, even when the adapter queues work internally.
// The function receives a context that is cancelled when the handle's
// RequestCancel is called; cancellation is cooperative and only takes
// effect if the function observes its context.
type Scheduler interface {
	// Schedule begins executing fn and returns a handle to the running
	// execution.
	Schedule(fn func(context.Context)) Running

	// CancelledError identifies the error kind (in the errors.Is sense)
	// that this adapter's executions surface when cancelled. A nil return
	// declares none, in which case callers fall back to context.Canceled.
	CancelledError() error

	// TimeoutError identifies the error kind that this adapter's
	// executions surface when a wait times out. A nil return declares
	// none, in which case callers fall back to context.DeadlineExceeded.
	TimeoutError() error
}

// A Running is a handle to one scheduled execution.
type Running interface {
	// RequestCancel asks the execution to stop, best effort. It reports
	// whether the request was delivered, not whether it took effect: a
	// function that never observes its context completes normally.
	// RequestCancel is idempotent.
	RequestCancel() bool

	// Done returns a channel that is closed when the execution has
	// finished, whether it completed, failed, or was abandoned before
	// running.
	Done() <-chan struct{}
}

// IsCancelled reports whether err signals a cancelled execution under the
// given scheduler, falling back to context.Canceled when the scheduler is
// nil or declares no cancelled-error kind of its own.
func IsCancelled(s Scheduler, err error) bool {
	if err == nil {
		return false
	}
	if s != nil {
		if kind := s.CancelledError(); kind != nil && errors.Is(err, kind) {
			return true
		}
	}
	return errors.Is(err, context.Canceled)
}

// IsTimeout reports whether err signals a timed-out wait under the given
// scheduler, falling back to context.DeadlineExceeded when the scheduler
// is nil or declares no timeout-error kind of its own.
func IsTimeout(s Scheduler, err error) bool {
	if err == nil {
		return false
	}
	if s != nil {
		if kind := s.TimeoutError(); kind != nil && errors.Is(err, kind) {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// running is the handle shared by the adapters in this package: a
// context cancel func delivers the request, a channel signals completion.
type running struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *running) RequestCancel() bool {
	r.cancel()
	return true
}

func (r *running) Done() <-chan struct{} { return r.done }
