package sched

import "context"

// Goroutines is the plain adapter: every scheduled function runs on its
// own goroutine, cancellation is delivered through the function's context.
//
// The zero value is ready to use.
type Goroutines struct{}

// Schedule runs fn on a new goroutine and returns its handle.
func (Goroutines) Schedule(fn func(context.Context)) Running {
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		defer close(r.done)
		fn(ctx)
	}()
	return r
}

// CancelledError reports context.Canceled: goroutine executions are
// cancelled through their context.
func (Goroutines) CancelledError() error { return context.Canceled }

// TimeoutError reports context.DeadlineExceeded.
func (Goroutines) TimeoutError() error { return context.DeadlineExceeded }
