package waitq

import (
	"fmt"
	"sync/atomic"
)

// Ticket states. Transitions are monotonic and happen exactly once:
// pending -> fulfilled or pending -> abandoned, decided by compare-and-swap
// so that a racing fulfilment and abandonment have a single winner.
const (
	statePending int32 = iota
	stateFulfilled
	stateAbandoned
)

// A Ticket is one queue entry representing a pending request for tokens.
//
// Tickets are created by Queue.Push and resolved exactly once. The waiter
// parks on Ready; the fulfiller closes it via Fulfill. All other fields
// are immutable after creation.
type Ticket struct {
	id       uint64
	tokens   int
	borrower any
	state    atomic.Int32
	ready    chan struct{}
}

// ID returns the ticket's identity, unique within its queue.
func (t *Ticket) ID() uint64 { return t.id }

// Tokens returns the number of tokens this ticket requests.
func (t *Ticket) Tokens() int { return t.tokens }

// Borrower returns the identity on whose behalf the tokens were requested.
func (t *Ticket) Borrower() any { return t.borrower }

// Ready returns a channel that is closed when the ticket is fulfilled.
// The channel is never closed for abandoned tickets. Multiple goroutines
// may safely wait on it, though normally exactly one does.
func (t *Ticket) Ready() <-chan struct{} { return t.ready }

// Fulfill marks the ticket fulfilled and wakes its waiter. It reports
// whether this call won the resolution; false means the ticket was already
// abandoned (or fulfilled) and no tokens must be committed to it.
func (t *Ticket) Fulfill() bool {
	if !t.state.CompareAndSwap(statePending, stateFulfilled) {
		return false
	}
	close(t.ready)
	return true
}

// Abandon marks the ticket abandoned. It reports whether this call won the
// resolution; false means the ticket was already fulfilled and its waiter
// therefore owns the granted tokens.
func (t *Ticket) Abandon() bool {
	return t.state.CompareAndSwap(statePending, stateAbandoned)
}

// Pending reports whether the ticket has not been resolved yet.
func (t *Ticket) Pending() bool { return t.state.Load() == statePending }

// Fulfilled reports whether the ticket resolved as fulfilled.
func (t *Ticket) Fulfilled() bool { return t.state.Load() == stateFulfilled }

// Abandoned reports whether the ticket resolved as abandoned.
func (t *Ticket) Abandoned() bool { return t.state.Load() == stateAbandoned }

// String returns a human-readable representation of the ticket's state.
func (t *Ticket) String() string {
	state := "pending"
	switch t.state.Load() {
	case stateFulfilled:
		state = "fulfilled"
	case stateAbandoned:
		state = "abandoned"
	}
	return fmt.Sprintf("Ticket(#%d %s, %d tokens)", t.id, state, t.tokens)
}
