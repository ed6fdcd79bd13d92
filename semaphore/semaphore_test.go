package semaphore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/capacity/semaphore"
)

func TestBoundedSemaphore(t *testing.T) {
	sem := semaphore.New(2)
	assert.Equal(t, "Semaphore(0/2)", sem.String())

	sem.Acquire()
	assert.True(t, sem.TryAcquire())
	assert.False(t, sem.TryAcquire(), "third token must not exist")
	assert.Equal(t, "Semaphore(2/2)", sem.String())

	sem.Release()
	assert.True(t, sem.TryAcquire())
	sem.Release()
	sem.Release()
	assert.Zero(t, len(sem))
}

func TestNilSemaphoreIsUnlimited(t *testing.T) {
	sem := semaphore.New(-1)
	assert.Nil(t, sem)
	assert.Equal(t, "Semaphore(unlimited)", sem.String())

	// None of these may block or panic.
	sem.Acquire()
	assert.True(t, sem.TryAcquire())
	require.NoError(t, sem.AcquireContext(context.Background()))
	sem.Release()
	sem.Release()
}

func TestAcquireContextTakesToken(t *testing.T) {
	sem := semaphore.New(1)
	require.NoError(t, sem.AcquireContext(context.Background()))
	assert.Equal(t, 1, len(sem))
	sem.Release()
}

func TestAcquireContextCancellation(t *testing.T) {
	sem := semaphore.New(1)
	sem.Acquire()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := sem.AcquireContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, len(sem), "failed acquire must not take a token")

	sem.Release()
}

func TestZeroLimitBlocksEverything(t *testing.T) {
	sem := semaphore.New(0)
	assert.False(t, sem.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sem.AcquireContext(ctx), context.DeadlineExceeded)
}

func Example() {
	sem := semaphore.New(2)
	fmt.Println("Created:", sem)

	// Always pair Acquire with a deferred Release so tokens return even
	// if the work panics.
	sem.Acquire()
	defer sem.Release()
	fmt.Printf("held=%d available=%d\n", len(sem), cap(sem)-len(sem))

	// TryAcquire handles the "too busy" case without blocking.
	if sem.TryAcquire() {
		defer sem.Release()
	}
	if !sem.TryAcquire() {
		fmt.Println("at capacity")
	}

	// Output:
	// Created: Semaphore(0/2)
	// held=1 available=1
	// at capacity
}
