// Package limitertest provides utilities for testing admission gates.
//
// The package offers a capability view over both limiter variants, a
// conservation check for the token ledger, and a randomized concurrent
// hammer. It exists so that the plain and reentrant limiters, which share
// their admission machinery, are verified against the same properties.
package limitertest

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Limiter is the read-only surface shared by both limiter variants.
type Limiter interface {
	TotalTokens() int
	AvailableTokens() int
	BorrowedTokens() int
	Waiting() int
	Borrowers() []any
	Held(borrower any) int
}

// AcquireReleaser is a limiter that can be driven by the Hammer.
type AcquireReleaser interface {
	Limiter
	Acquire(ctx context.Context, borrower any) error
	Release(borrower any) error
}

// CheckConservation fails the test unless the limiter's token ledger
// balances: available tokens plus the tokens held by every borrower must
// equal the fixed total, and the borrowed count must be their difference.
//
// The check is only meaningful at a quiescent point, with no acquire or
// release in flight.
func CheckConservation(t *testing.T, l Limiter) {
	t.Helper()
	held := 0
	for _, b := range l.Borrowers() {
		h := l.Held(b)
		assert.Positive(t, h, "borrower %v is recorded but holds nothing", b)
		held += h
	}
	assert.Equal(t, l.TotalTokens(), l.AvailableTokens()+held,
		"conservation violated: %d available + %d held != %d total",
		l.AvailableTokens(), held, l.TotalTokens())
	assert.Equal(t, l.TotalTokens()-l.AvailableTokens(), l.BorrowedTokens())
}

// Hammer drives the limiter with the given number of concurrent workers,
// each performing acquire/hold/release cycles with jittered hold times,
// then verifies that every token found its way home: no waiters left, no
// borrowers left, the full total available, and the ledger balanced.
//
// Some cycles acquire under an already-expired context to exercise the
// cancellation paths alongside the happy path.
func Hammer(t *testing.T, l AcquireReleaser, workers, cycles int) {
	t.Helper()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		borrower := borrowerID{worker: w}
		seed := rand.Uint64()
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			for i := 0; i < cycles; i++ {
				if rng.IntN(8) == 0 {
					// An already-cancelled acquire must not leak tickets
					// or tokens.
					ctx, cancel := context.WithCancel(context.Background())
					cancel()
					if err := l.Acquire(ctx, borrower); err == nil {
						// The grant won the race; hand it back.
						if err := l.Release(borrower); err != nil {
							return err
						}
					}
					continue
				}
				if err := l.Acquire(context.Background(), borrower); err != nil {
					return err
				}
				if rng.IntN(4) == 0 {
					time.Sleep(time.Duration(rng.IntN(100)) * time.Microsecond)
				}
				if err := l.Release(borrower); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Zero(t, l.Waiting(), "tickets left enqueued after hammer")
	assert.Empty(t, l.Borrowers(), "borrowers left recorded after hammer")
	assert.Equal(t, l.TotalTokens(), l.AvailableTokens())
	CheckConservation(t, l)
}

// borrowerID is the comparable borrower identity used by Hammer workers.
type borrowerID struct {
	worker int
}
