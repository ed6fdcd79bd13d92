package limiter

import (
	"context"
	"fmt"
	"time"
)

// ReentrantLimiter is a token-counted admission gate that permits nested
// acquisition: a borrower already holding a token may acquire again
// without blocking and without touching the shared pool, tracked as a
// per-borrower depth. Release decrements the depth; only when it reaches
// zero does the token return to the pool and the wait queue advance.
//
// Requests are always for a single token; the interesting quantity is the
// depth, not a weight. All methods are safe for concurrent use.
type ReentrantLimiter struct {
	c *core
}

// NewReentrant creates a ReentrantLimiter with the given fixed token
// total. It returns ErrTotalTokens if totalTokens is less than 1.
func NewReentrant(totalTokens int) (*ReentrantLimiter, error) {
	c, err := newCore(totalTokens, true)
	if err != nil {
		return nil, err
	}
	return &ReentrantLimiter{c: c}, nil
}

// Acquire takes a token on behalf of borrower, waiting in line if none is
// available. If the borrower already holds a token, Acquire succeeds
// immediately regardless of pool state, incrementing the borrower's depth.
func (r *ReentrantLimiter) Acquire(ctx context.Context, borrower any) error {
	return r.c.acquire(ctx, borrower, 1)
}

// TryAcquire takes a token without blocking, reporting whether it was
// granted. For a borrower that already holds a token this always succeeds;
// a borrower that is still waiting in the queue gets ErrAlreadyBorrowed.
func (r *ReentrantLimiter) TryAcquire(borrower any) (bool, error) {
	return r.c.tryAcquire(borrower, 1)
}

// AcquireTimeout takes a token, waiting in line for at most d. A timeout
// of zero or less is equivalent to TryAcquire.
func (r *ReentrantLimiter) AcquireTimeout(borrower any, d time.Duration) (bool, error) {
	return r.c.acquireTimeout(borrower, 1, d)
}

// Release undoes one acquisition by borrower. The borrower must call
// Release exactly as many times as it acquired before its token returns
// to the pool. It returns ErrNotBorrowed if the borrower's depth is
// already zero.
func (r *ReentrantLimiter) Release(borrower any) error {
	return r.c.release(borrower)
}

// Depth returns how many times borrower has acquired without releasing,
// or 0 if it holds nothing.
func (r *ReentrantLimiter) Depth(borrower any) int { return r.c.depth(borrower) }

// TotalTokens returns the fixed token total set at construction.
func (r *ReentrantLimiter) TotalTokens() int { return r.c.totalTokens() }

// AvailableTokens returns the number of tokens currently in the pool.
func (r *ReentrantLimiter) AvailableTokens() int { return r.c.availableTokens() }

// BorrowedTokens returns TotalTokens() minus AvailableTokens().
func (r *ReentrantLimiter) BorrowedTokens() int { return r.c.borrowedTokens() }

// Waiting returns the number of tickets currently in the wait queue.
func (r *ReentrantLimiter) Waiting() int { return r.c.waiting() }

// Borrowers returns a snapshot of the identities currently holding tokens,
// in no particular order.
func (r *ReentrantLimiter) Borrowers() []any { return r.c.borrowers() }

// Held returns 1 if borrower currently holds a token and 0 otherwise.
// Depth reports the nesting level; the token count is at most one.
func (r *ReentrantLimiter) Held(borrower any) int { return r.c.heldBy(borrower) }

// String returns a human-readable representation of the limiter's state.
func (r *ReentrantLimiter) String() string {
	return fmt.Sprintf("ReentrantLimiter(%d/%d tokens, %d waiting)",
		r.BorrowedTokens(), r.TotalTokens(), r.Waiting())
}
