package driven

import (
	"context"
	"time"
)

// DistributedLock serialises preprocessing runs across processes. A run holds
// the lock while it replaces the artifact set and renews it until it finishes.
type DistributedLock interface {
	// Acquire takes the named lock without blocking. It reports false when
	// another holder has it. Backends with expiry drop the lock after ttl.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release drops the lock if this instance holds it. Releasing a lock that
	// is free or held elsewhere is not an error.
	Release(ctx context.Context, name string) error

	// Extend renews the expiry of a held lock. It returns an error wrapping
	// domain.ErrLockNotHeld when this instance no longer holds it.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks the lock backend.
	Ping(ctx context.Context) error
}

// LockHolder is implemented by backends that can name the current holder.
type LockHolder interface {
	// Holder returns the holder's identifier, or "" when the lock is free.
	Holder(ctx context.Context, name string) (string, error)
}
