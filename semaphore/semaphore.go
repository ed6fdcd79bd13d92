package semaphore

import (
	"context"
	"fmt"
)

// Semaphore is a counting semaphore wherein the channel's buffer size
// determines the maximum number of concurrently held tokens.
//
// The nil Semaphore is the zero-value Semaphore. It represents unlimited
// capacity and never blocks, so callers can use one code path whether
// concurrency is bounded or not.
//
// To inspect the semaphore's current state, use the built-in len and cap
// functions: len(s) is the number of tokens currently held, cap(s) is the
// maximum, and cap(s) - len(s) is the number of free slots. Both return 0
// for nil semaphores.
type Semaphore chan struct{}

// New creates a semaphore with the specified limit. A negative limit
// returns the nil Semaphore, which is unlimited and never blocks on
// acquisition.
func New(limit int) Semaphore {
	if limit < 0 {
		return nil
	}
	return make(Semaphore, limit)
}

// String returns a human-readable representation of the semaphore's
// state, "Semaphore(held/capacity)" or "Semaphore(unlimited)".
func (s Semaphore) String() string {
	if s == nil {
		return "Semaphore(unlimited)"
	}
	return fmt.Sprintf("Semaphore(%v/%v)", len(s), cap(s))
}

// Acquire blocks until a token becomes available, then takes it. For nil
// semaphores it returns immediately.
//
// Typical usage:
//
//	s.Acquire()
//	defer s.Release()
//	// ... do work ...
func (s Semaphore) Acquire() {
	if s == nil {
		return
	}
	s <- struct{}{}
}

// AcquireContext blocks until a token becomes available or ctx is done.
// It returns nil once the token is held and ctx.Err() otherwise, in which
// case no token was taken. For nil semaphores it only checks ctx.
func (s Semaphore) AcquireContext(ctx context.Context) error {
	if s == nil {
		return ctx.Err()
	}
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a token without blocking, reporting whether one was
// taken. For nil semaphores it always reports true.
//
// TryAcquire may succeed even while other goroutines block in Acquire: it
// inherits Go's channel "barging" behaviour, so there is no ordering
// between blocking and non-blocking acquisition.
func (s Semaphore) TryAcquire() bool {
	if s == nil {
		return true
	}
	select {
	case s <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a token to the semaphore, allowing another blocked
// goroutine to proceed. Release must be called exactly once for each
// successful acquisition. For nil semaphores it is a no-op.
//
// Releasing more often than acquiring blocks, because it attempts to
// receive from a channel that holds no token.
func (s Semaphore) Release() {
	if s == nil {
		return
	}
	<-s
}
