package limiter

import "errors"

// Errors reported by both limiter variants. All of them indicate misuse by
// the caller; none are retryable conditions.
var (
	// ErrTotalTokens is returned by the constructors when the requested
	// total is less than one.
	ErrTotalTokens = errors.New("limiter: total tokens must be at least 1")

	// ErrTokenRequest is returned by AcquireN and friends when the
	// requested token count is less than one or exceeds the limiter's
	// total, which could never be satisfied.
	ErrTokenRequest = errors.New("limiter: token request out of range")

	// ErrAlreadyBorrowed is returned by a non-reentrant acquire when the
	// borrower already holds tokens or already has a ticket in the wait
	// queue. Use ReentrantLimiter for nested acquisition.
	ErrAlreadyBorrowed = errors.New("limiter: borrower already holds or is waiting for tokens")

	// ErrNotBorrowed is returned by Release when the borrower holds no
	// tokens. Over-releasing is never silently clamped.
	ErrNotBorrowed = errors.New("limiter: borrower holds no tokens")
)
