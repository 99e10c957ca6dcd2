// Package local provides in-process adapters for single-instance deployments.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

// Lock implements DistributedLock within a single process.
// It only coordinates goroutines sharing the same Lock value; use the Redis
// or PostgreSQL lock when several processes can preprocess at once.
type Lock struct {
	mu   sync.Mutex
	held map[string]time.Time // name -> expiry
	now  func() time.Time
}

// NewLock creates a new in-process lock.
func NewLock() *Lock {
	return &Lock{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Acquire takes the named lock if it is free or its TTL has elapsed.
// A non-positive TTL holds the lock until Release.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiry, ok := l.held[name]; ok && (expiry.IsZero() || now.Before(expiry)) {
		return false, nil
	}
	l.held[name] = expiryFor(now, ttl)
	return true, nil
}

// Release frees the named lock. Safe to call when not held.
func (l *Lock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	delete(l.held, name)
	l.mu.Unlock()
	return nil
}

// Extend resets the TTL of a held lock.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	expiry, ok := l.held[name]
	if !ok || (!expiry.IsZero() && !now.Before(expiry)) {
		return fmt.Errorf("extend lock %s: %w", name, domain.ErrLockNotHeld)
	}
	l.held[name] = expiryFor(now, ttl)
	return nil
}

// Ping always succeeds.
func (l *Lock) Ping(ctx context.Context) error {
	return nil
}

func expiryFor(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
