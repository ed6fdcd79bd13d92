package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/capacity/limiter"
	"github.com/notorious-go/capacity/limiter/limitertest"
)

func TestNewReentrantRejectsNonPositiveTotals(t *testing.T) {
	_, err := limiter.NewReentrant(0)
	assert.ErrorIs(t, err, limiter.ErrTotalTokens)
}

// The canonical reentrancy walkthrough: one token, nested acquisition,
// matching releases.
func TestReentrantDepthAccounting(t *testing.T) {
	l, err := limiter.NewReentrant(1)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background(), "A"))
	assert.Equal(t, 1, l.Depth("A"))
	assert.Zero(t, l.AvailableTokens())

	// Re-acquiring while holding never blocks, even at zero available.
	require.NoError(t, l.Acquire(context.Background(), "A"))
	assert.Equal(t, 2, l.Depth("A"))
	assert.Zero(t, l.AvailableTokens(), "reentrant acquire must not touch the pool")
	assert.Equal(t, 1, l.Held("A"), "depth is not token count")

	require.NoError(t, l.Release("A"))
	assert.Equal(t, 1, l.Depth("A"))
	assert.Zero(t, l.AvailableTokens(), "token must stay held until depth reaches zero")

	require.NoError(t, l.Release("A"))
	assert.Zero(t, l.Depth("A"))
	assert.Equal(t, 1, l.AvailableTokens())
	assert.Empty(t, l.Borrowers())
	limitertest.CheckConservation(t, l)
}

func TestReentrantAcquireNeverQueuesForHolder(t *testing.T) {
	l, err := limiter.NewReentrant(1)
	require.NoError(t, err)
	require.NoError(t, l.Acquire(context.Background(), "A"))

	// B waits; A's reentrant acquire must not compete with B's ticket.
	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(context.Background(), "B")
	}()
	waitFor(t, func() bool { return l.Waiting() == 1 })

	ok, err := l.TryAcquire("A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, l.Depth("A"))
	assert.Equal(t, 1, l.Waiting(), "holder's re-acquire must not consume B's ticket")

	require.NoError(t, l.Release("A"))
	require.NoError(t, l.Release("A"))
	require.NoError(t, <-acquired)
	assert.Equal(t, 1, l.Depth("B"))
	require.NoError(t, l.Release("B"))
	limitertest.CheckConservation(t, l)
}

func TestReentrantFinalReleaseWakesQueue(t *testing.T) {
	l, err := limiter.NewReentrant(1)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background(), "A"))
	require.NoError(t, l.Acquire(context.Background(), "A"))

	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(context.Background(), "B")
	}()
	waitFor(t, func() bool { return l.Waiting() == 1 })

	require.NoError(t, l.Release("A"))
	select {
	case <-acquired:
		t.Fatal("waiter served while the token was still held at depth 1")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, l.Release("A"))
	require.NoError(t, <-acquired)
	require.NoError(t, l.Release("B"))
}

func TestReentrantReleaseAtDepthZeroFails(t *testing.T) {
	l, err := limiter.NewReentrant(1)
	require.NoError(t, err)
	assert.ErrorIs(t, l.Release("A"), limiter.ErrNotBorrowed)
}

func TestReentrantTimeoutZeroIsNonBlocking(t *testing.T) {
	l, err := limiter.NewReentrant(1)
	require.NoError(t, err)
	require.NoError(t, l.Acquire(context.Background(), "A"))

	ok, err := l.AcquireTimeout("B", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, l.Waiting())

	// For the holder itself a zero timeout still succeeds reentrantly.
	ok, err = l.AcquireTimeout("A", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, l.Depth("A"))
}

func TestReentrantHammer(t *testing.T) {
	l, err := limiter.NewReentrant(2)
	require.NoError(t, err)
	limitertest.Hammer(t, l, 6, 200)
}

// nestedAcquire exercises depth > 1 under concurrency: each worker nests
// a random depth and unwinds it fully.
func TestReentrantNestedUnderConcurrency(t *testing.T) {
	l, err := limiter.NewReentrant(2)
	require.NoError(t, err)

	done := make(chan error)
	for w := 0; w < 6; w++ {
		go func(id int) {
			for i := 0; i < 100; i++ {
				depth := 1 + (i+id)%3
				for d := 0; d < depth; d++ {
					if err := l.Acquire(context.Background(), id); err != nil {
						done <- err
						return
					}
				}
				for d := 0; d < depth; d++ {
					if err := l.Release(id); err != nil {
						done <- err
						return
					}
				}
			}
			done <- nil
		}(w)
	}
	for w := 0; w < 6; w++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, 2, l.AvailableTokens())
	assert.Empty(t, l.Borrowers())
	limitertest.CheckConservation(t, l)
}
