package limiter

import (
	"context"
	"fmt"
	"time"
)

// Limiter is a non-reentrant, token-counted admission gate.
//
// A Limiter is created with a fixed total of tokens. Borrowers take tokens
// with one of the acquire forms and give them back with Release; when the
// pool runs dry, acquirers queue up and are served in strict FIFO order.
// A borrower identity may hold at most one grant at a time.
//
// All methods are safe for concurrent use.
type Limiter struct {
	c *core
}

// New creates a Limiter with the given fixed token total. It returns
// ErrTotalTokens if totalTokens is less than 1.
func New(totalTokens int) (*Limiter, error) {
	c, err := newCore(totalTokens, false)
	if err != nil {
		return nil, err
	}
	return &Limiter{c: c}, nil
}

// Acquire takes one token on behalf of borrower, waiting in line if none
// is available. It returns nil once the token is granted, ctx.Err() if the
// context is cancelled first, or ErrAlreadyBorrowed if the borrower
// already holds or awaits tokens.
//
// If cancellation and fulfilment race, the fulfilment wins and the token
// is handed back automatically before ctx.Err() is returned; the
// conservation invariant is never left violated.
func (l *Limiter) Acquire(ctx context.Context, borrower any) error {
	return l.c.acquire(ctx, borrower, 1)
}

// AcquireN is Acquire for a weighted request of n tokens. The request must
// satisfy 1 <= n <= TotalTokens(); otherwise ErrTokenRequest is returned.
// A large request at the front of the queue blocks smaller requests behind
// it until it is satisfied or gives up.
func (l *Limiter) AcquireN(ctx context.Context, borrower any, n int) error {
	return l.c.acquire(ctx, borrower, n)
}

// TryAcquire takes one token without blocking. It reports whether the
// token was granted; on false the limiter is left untouched and no ticket
// is enqueued. Like Acquire, it returns ErrAlreadyBorrowed for a borrower
// that already holds or awaits tokens.
func (l *Limiter) TryAcquire(borrower any) (bool, error) {
	return l.c.tryAcquire(borrower, 1)
}

// TryAcquireN is TryAcquire for a weighted request of n tokens, with
// ErrTokenRequest for an out-of-range n.
func (l *Limiter) TryAcquireN(borrower any, n int) (bool, error) {
	return l.c.tryAcquire(borrower, n)
}

// AcquireTimeout takes one token, waiting in line for at most d. It
// reports whether the token was granted; false means the timeout elapsed
// and the ticket was removed from the queue. A timeout of zero or less is
// equivalent to TryAcquire.
func (l *Limiter) AcquireTimeout(borrower any, d time.Duration) (bool, error) {
	return l.c.acquireTimeout(borrower, 1, d)
}

// Release returns borrower's entire grant to the pool and fulfils newly
// satisfiable tickets, front first, before returning. It returns
// ErrNotBorrowed if the borrower holds no tokens.
func (l *Limiter) Release(borrower any) error {
	return l.c.release(borrower)
}

// TotalTokens returns the fixed token total set at construction.
func (l *Limiter) TotalTokens() int { return l.c.totalTokens() }

// AvailableTokens returns the number of tokens currently in the pool.
func (l *Limiter) AvailableTokens() int { return l.c.availableTokens() }

// BorrowedTokens returns TotalTokens() minus AvailableTokens().
func (l *Limiter) BorrowedTokens() int { return l.c.borrowedTokens() }

// Waiting returns the number of tickets currently in the wait queue.
func (l *Limiter) Waiting() int { return l.c.waiting() }

// Borrowers returns a snapshot of the identities currently holding tokens,
// in no particular order.
func (l *Limiter) Borrowers() []any { return l.c.borrowers() }

// Held returns the number of tokens currently held by borrower, or 0 if
// it holds none.
func (l *Limiter) Held(borrower any) int { return l.c.heldBy(borrower) }

// String returns a human-readable representation of the limiter's state.
func (l *Limiter) String() string {
	return fmt.Sprintf("Limiter(%d/%d tokens, %d waiting)",
		l.BorrowedTokens(), l.TotalTokens(), l.Waiting())
}
