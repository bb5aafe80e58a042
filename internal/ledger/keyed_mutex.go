package ledger

import (
	"context"
	"sync"
	"time"
)

// keyedMutex serializes work per room type id. Each key gets a one-slot
// channel semaphore; acquisition is bounded by both the caller's context
// and a wait budget.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int32]chan struct{}
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int32]chan struct{})}
}

func (k *keyedMutex) sem(key int32) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		k.locks[key] = sem
	}
	return sem
}

func (k *keyedMutex) lock(ctx context.Context, key int32, wait time.Duration) (func(), error) {
	sem := k.sem(key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrLockTimeout
	}
}
