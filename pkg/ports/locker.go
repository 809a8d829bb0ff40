package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock acquired through a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker serializes work on a key (a seed address) across processes sharing one cache,
// so concurrent requests for the same seed do not fetch the same records twice.
type Locker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl if never released.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
