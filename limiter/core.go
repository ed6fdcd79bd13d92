package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/notorious-go/capacity/waitq"
)

// core is the admission machinery shared by Limiter and ReentrantLimiter.
// The two variants differ only in how held is accounted: token counts per
// borrower for the plain variant, acquisition depth for the reentrant one.
// This is a tagged mode rather than inheritance so that both variants run
// the exact same queueing and conservation logic.
//
// All mutable state is guarded by mu. Critical sections only update
// counters and the queue; no acquire ever blocks or waits while holding mu.
type core struct {
	mu        sync.Mutex
	total     int
	available int
	reentrant bool

	// held maps borrower identity to its token count (plain) or its
	// acquisition depth (reentrant). Entries are removed at zero; a
	// present entry is always >= 1.
	held map[any]int

	// queued tracks borrowers with a pending ticket, enforcing the
	// at-most-one-outstanding-request rule per borrower.
	queued map[any]struct{}

	q waitq.Queue
}

func newCore(totalTokens int, reentrant bool) (*core, error) {
	if totalTokens < 1 {
		return nil, ErrTotalTokens
	}
	return &core{
		total:     totalTokens,
		available: totalTokens,
		reentrant: reentrant,
		held:      make(map[any]int),
		queued:    make(map[any]struct{}),
	}, nil
}

func (c *core) checkRequest(tokens int) error {
	if tokens < 1 || tokens > c.total {
		return ErrTokenRequest
	}
	return nil
}

// admit runs the shared admission logic under mu. Exactly one of the
// following happens:
//
//   - granted: the fast path took tokens from the pool (or bumped the
//     reentrant depth) and recorded the borrower.
//   - ticket != nil: no tokens were immediately available and enqueue was
//     true, so a pending ticket joined the wait queue.
//   - err != nil: the request was rejected without side effects.
//   - all zero: no tokens available and enqueue was false.
func (c *core) admit(borrower any, tokens int, enqueue bool) (granted bool, ticket *waitq.Ticket, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, holding := c.held[borrower]; holding {
		if c.reentrant {
			// A holder re-acquiring never blocks and never competes for
			// the queue; only its depth grows.
			c.held[borrower]++
			return true, nil, nil
		}
		return false, nil, ErrAlreadyBorrowed
	}
	if _, waiting := c.queued[borrower]; waiting {
		return false, nil, ErrAlreadyBorrowed
	}

	// Fast path: tokens available and nobody queued ahead of us. An empty
	// queue is required so that a late arrival cannot barge past a larger
	// request still waiting at the front.
	if c.q.Len() == 0 && c.available >= tokens {
		c.available -= tokens
		c.held[borrower] = c.grantAmount(tokens)
		return true, nil, nil
	}

	if !enqueue {
		return false, nil, nil
	}
	ticket = c.q.Push(tokens, borrower)
	c.queued[borrower] = struct{}{}
	return false, ticket, nil
}

// grantAmount is what gets recorded in held for a fresh grant: the token
// count for the plain variant, depth 1 for the reentrant one.
func (c *core) grantAmount(tokens int) int {
	if c.reentrant {
		return 1
	}
	return tokens
}

// abandon removes the ticket after a cancellation or timeout. It reports
// whether the abandonment won; false means a concurrent release fulfilled
// the ticket first, in which case the grant stands and the caller must
// decide whether to keep or hand back the tokens it now holds.
//
// A winning abandonment re-runs queue fulfilment: the departed ticket may
// have been a large request at the head of the line, and tokens sitting in
// the pool must be offered to the new front rather than wait for an
// unrelated future release.
func (c *core) abandon(ticket *waitq.Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.q.Remove(ticket) {
		return false
	}
	delete(c.queued, ticket.Borrower())
	c.wakeLocked()
	return true
}

// acquire is the suspending form: it parks on the ticket's ready channel
// until fulfilment or ctx cancellation.
func (c *core) acquire(ctx context.Context, borrower any, tokens int) error {
	if err := c.checkRequest(tokens); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	granted, ticket, err := c.admit(borrower, tokens, true)
	if err != nil || granted {
		return err
	}

	select {
	case <-ticket.Ready():
		return nil
	case <-ctx.Done():
		if c.abandon(ticket) {
			return ctx.Err()
		}
		// Fulfilment won the race: the tokens were already committed to
		// this borrower. Cancellation still takes precedence for the
		// caller, so hand the grant straight back before surfacing it.
		c.release(borrower)
		return ctx.Err()
	}
}

// tryAcquire is the non-blocking form; it never enqueues.
func (c *core) tryAcquire(borrower any, tokens int) (bool, error) {
	if err := c.checkRequest(tokens); err != nil {
		return false, err
	}
	granted, _, err := c.admit(borrower, tokens, false)
	return granted, err
}

// acquireTimeout is the blocking form. A timeout of zero or less degrades
// to tryAcquire. On expiry the ticket is removed and false is returned; if
// a fulfilment slips in just before the removal, the grant is kept and the
// acquire reports success.
func (c *core) acquireTimeout(borrower any, tokens int, d time.Duration) (bool, error) {
	if d <= 0 {
		return c.tryAcquire(borrower, tokens)
	}
	if err := c.checkRequest(tokens); err != nil {
		return false, err
	}
	granted, ticket, err := c.admit(borrower, tokens, true)
	if err != nil || granted {
		return granted, err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ticket.Ready():
		return true, nil
	case <-timer.C:
		if c.abandon(ticket) {
			return false, nil
		}
		return true, nil
	}
}

// release returns a borrower's grant to the pool and fulfils every newly
// satisfiable ticket, front first, before returning. The available count
// observed immediately after release therefore already reflects the
// post-fulfilment state.
func (c *core) release(borrower any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	held, ok := c.held[borrower]
	if !ok {
		return ErrNotBorrowed
	}
	if c.reentrant {
		if held > 1 {
			c.held[borrower] = held - 1
			return nil
		}
		delete(c.held, borrower)
		c.available++
	} else {
		delete(c.held, borrower)
		c.available += held
	}
	c.wakeLocked()
	return nil
}

// wakeLocked grants tokens to waiting tickets in strict FIFO order. If the
// front ticket's request cannot be satisfied, no ticket behind it is
// considered: head-of-line blocking is what keeps large requests from
// starving.
func (c *core) wakeLocked() {
	for {
		front := c.q.Front()
		if front == nil || front.Tokens() > c.available {
			return
		}
		c.q.Pop()
		delete(c.queued, front.Borrower())
		c.available -= front.Tokens()
		c.held[front.Borrower()] = c.grantAmount(front.Tokens())
		// The ticket cannot have been abandoned: Front only returns live
		// tickets and abandonment takes mu.
		front.Fulfill()
	}
}

func (c *core) totalTokens() int { return c.total }

func (c *core) availableTokens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

func (c *core) borrowedTokens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total - c.available
}

func (c *core) waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.Len()
}

func (c *core) borrowers() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, 0, len(c.held))
	for b := range c.held {
		out = append(out, b)
	}
	return out
}

func (c *core) heldBy(borrower any) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reentrant {
		// Depth is not token count; any holding borrower owns one token.
		if c.held[borrower] > 0 {
			return 1
		}
		return 0
	}
	return c.held[borrower]
}

func (c *core) depth(borrower any) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held[borrower]
}
