package concurrency

import (
	"context"
	"sync"
)

// LockManager hands out per-key exclusive locks. Entries are reference counted and dropped once
// no goroutine holds or waits for them, so the key space can be unbounded (one key per user and
// case pair).
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// Acquire blocks until the lock for key is held or ctx is done. The returned release func must
// be called exactly once.
func (lm *LockManager) Acquire(ctx context.Context, key string) (func(), error) {
	kl := lm.ref(key)

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		lm.unref(key)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			lm.unref(key)
		})
	}, nil
}

// Len returns the number of keys currently held or awaited
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

func (lm *LockManager) ref(key string) *keyLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	kl, ok := lm.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		lm.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (lm *LockManager) unref(key string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	kl := lm.locks[key]
	kl.refs--
	if kl.refs == 0 {
		delete(lm.locks, key)
	}
}
