package service

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// boundedHasher limits how many KDF computations run at once. Derive and Verify keep
// a core busy for tens of milliseconds, so an unbounded number of them per request
// would starve the server.
type boundedHasher struct {
	codec PasswordCodec
	slots *semaphore.Weighted
}

// NewBoundedHasher wraps codec so at most maxConcurrency derivations run in parallel.
// A non-positive maxConcurrency uses runtime.NumCPU().
func NewBoundedHasher(codec PasswordCodec, maxConcurrency int) PasswordHasher {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	return &boundedHasher{
		codec: codec,
		slots: semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

// Derive waits for a free slot, then derives a secret.
func (b *boundedHasher) Derive(ctx context.Context, password string) (string, error) {
	if err := b.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer b.slots.Release(1)

	return b.codec.Derive(password)
}

// Verify waits for a free slot, then verifies. The error is only ever the context's.
func (b *boundedHasher) Verify(ctx context.Context, password, secret string) (bool, error) {
	if err := b.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer b.slots.Release(1)

	return b.codec.Verify(password, secret), nil
}
