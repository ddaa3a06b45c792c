package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for the checkout single-flight lock.
type LockStoreInterface interface {
	AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
)
