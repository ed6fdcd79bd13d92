package sched

import (
	"context"

	"github.com/notorious-go/capacity/semaphore"
)

// Pool is a bounded adapter: at most limit scheduled functions execute
// concurrently, the rest queue on an internal semaphore. Schedule itself
// never blocks; queued work waits on its own goroutine, so a cancel
// request delivered while still queued prevents the function from ever
// starting.
type Pool struct {
	sem semaphore.Semaphore
}

// NewPool creates a Pool running at most limit functions concurrently.
// A negative limit means unlimited, making the pool equivalent to the
// Goroutines adapter; a limit of zero permits no execution at all.
func NewPool(limit int) *Pool {
	return &Pool{sem: semaphore.New(limit)}
}

// Schedule queues fn for execution and returns its handle. The handle's
// Done channel closes when fn returns, or immediately after a cancel
// request that arrives while fn still waits for a slot.
func (p *Pool) Schedule(fn func(context.Context)) Running {
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		defer close(r.done)
		if err := p.sem.AcquireContext(ctx); err != nil {
			// Cancelled before a slot opened; fn never runs.
			return
		}
		defer p.sem.Release()
		fn(ctx)
	}()
	return r
}

// CancelledError reports context.Canceled; pool executions are cancelled
// through their context, queued or running alike.
func (*Pool) CancelledError() error { return context.Canceled }

// TimeoutError reports context.DeadlineExceeded.
func (*Pool) TimeoutError() error { return context.DeadlineExceeded }
