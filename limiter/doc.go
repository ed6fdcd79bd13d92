// Package limiter provides token-counted admission gates with strict FIFO
// fairness.
//
// A limiter holds a fixed total of tokens and hands them out to borrowers.
// When no token is available the acquirer joins a wait queue; tokens are
// always offered to the front of the queue first, and a large request at
// the front blocks smaller requests behind it until it is satisfied or
// gives up. This head-of-line policy prevents a stream of small requests
// from starving a large one.
//
// Two variants share the same admission machinery:
//
//   - Limiter: non-reentrant. A borrower identity holds at most one grant
//     at a time; acquiring again while holding is an error.
//   - ReentrantLimiter: a borrower already holding a token may acquire
//     again without blocking, tracked as a per-borrower depth. The token
//     returns to the pool only when the depth reaches zero.
//
// Each acquire operation comes in three forms sharing identical admission
// logic: a context-aware suspending form (Acquire), a non-blocking form
// (TryAcquire), and a timeout-bounded blocking form (AcquireTimeout).
//
// # Borrower identity
//
// Borrowers are opaque identities compared with ==. The caller chooses
// them, which lets one logical owner acquire in one goroutine and release
// in another ("on behalf of"). WithBorrower and BorrowerFromContext carry
// a borrower identity through a context for code that does not thread
// borrower values explicitly.
//
// # Invariant
//
// At every quiescent point,
//
//	AvailableTokens() + sum of all held tokens == TotalTokens()
//
// holds for both variants, on every path including cancellation and
// timeout mid-acquire. When a grant races with a cancellation, the grant
// wins: the token is routed back through the release path rather than
// discarded, so no token is ever lost.
package limiter
