// Package waitq provides an ordered queue of wait tickets, the building
// block underneath the capacity limiters in this module.
//
// Each ticket represents one pending request for tokens. A ticket resolves
// exactly once: it is either fulfilled (its tokens were granted) or
// abandoned (its waiter gave up, typically because of cancellation or a
// timeout). Fulfilment closes the ticket's Ready channel, waking only the
// goroutine parked on that ticket rather than broadcasting to every waiter.
//
// The queue preserves strict FIFO insertion order. Removing an abandoned
// ticket from the middle of the queue is O(1) amortized: the ticket is
// merely marked, and the mark is skipped over when the front of the queue
// is next inspected. The relative order of the remaining tickets is never
// disturbed.
//
// A Queue is not safe for concurrent use. It is owned by a single limiter
// which serializes all access under its own mutex; only the resolution of
// an individual Ticket (Fulfill, Abandon) and the Ready channel are safe to
// touch from other goroutines.
package waitq

import (
	"github.com/gammazero/deque"
)

// Queue is a FIFO collection of pending tickets.
//
// The zero-value Queue is ready to use.
type Queue struct {
	nextID  uint64
	tickets deque.Deque[*Ticket]
	// pending counts tickets that are neither fulfilled nor abandoned.
	// Abandoned tickets may linger in the deque as tombstones until they
	// reach the front, so tickets.Len() overstates the real queue length.
	pending int
}

// Push appends a new pending ticket requesting the given number of tokens
// on behalf of the given borrower.
func (q *Queue) Push(tokens int, borrower any) *Ticket {
	q.nextID++
	t := &Ticket{
		id:       q.nextID,
		tokens:   tokens,
		borrower: borrower,
		ready:    make(chan struct{}),
	}
	q.tickets.PushBack(t)
	q.pending++
	return t
}

// Len returns the number of pending tickets in the queue. Abandoned
// tickets that have not yet been compacted away do not count.
func (q *Queue) Len() int {
	return q.pending
}

// Front returns the oldest pending ticket, or nil if the queue is empty.
// Abandoned tickets at the front are discarded along the way, so the
// returned ticket is always live.
func (q *Queue) Front() *Ticket {
	for q.tickets.Len() > 0 {
		t := q.tickets.Front()
		if t.Abandoned() {
			q.tickets.PopFront()
			continue
		}
		return t
	}
	return nil
}

// Pop removes and returns the oldest pending ticket, or nil if the queue
// is empty. The caller is expected to resolve the returned ticket; a
// popped ticket no longer counts toward Len.
func (q *Queue) Pop() *Ticket {
	t := q.Front()
	if t == nil {
		return nil
	}
	q.tickets.PopFront()
	q.pending--
	return t
}

// Remove abandons the given ticket and logically removes it from the
// queue. It reports whether the abandonment won: false means the ticket
// was already resolved (fulfilled by a concurrent release, or abandoned
// earlier) and the queue was left untouched.
//
// The ticket's slot in the backing deque is not excised immediately;
// it becomes a tombstone that Front and Pop skip over.
func (q *Queue) Remove(t *Ticket) bool {
	if !t.Abandon() {
		return false
	}
	q.pending--
	return true
}
