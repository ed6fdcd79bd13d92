// Package semaphore provides a counting semaphore implemented as a
// buffered channel, where the nil Semaphore represents unlimited capacity.
//
// Raw buffered channels can serve as semaphores, but a nil channel blocks
// forever on both send and receive. This package inverts that behaviour: a
// nil Semaphore never blocks, so an optional concurrency limit needs no
// defensive `if sem != nil` checks at every acquire and release site. The
// sched package uses this to make an unbounded pool and a bounded pool the
// same code path.
//
// A Semaphore makes no fairness promises: acquisition inherits Go's
// channel "barging" behaviour, which is cheaper when FIFO ordering between
// waiters does not matter. Reach for the limiter package when ordering
// does matter; it adds a fair wait queue, weighted requests, borrower
// accounting, and reentrancy on top of the same token idea.
//
// The semaphore IS the channel, a zero-cost abstraction that keeps the
// built-in len and cap functions available for inspecting held and maximum
// token counts.
package semaphore
