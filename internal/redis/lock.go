package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireCheckoutLock attempts to acquire the single-flight checkout lock for
// the given user. Returns true if the lock was acquired, false if a checkout
// is already in flight.
func (s *LockStore) AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:checkout:%s", userID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseCheckoutLock releases the checkout lock for the given user.
func (s *LockStore) ReleaseCheckoutLock(ctx context.Context, userID string) error {
	key := fmt.Sprintf("lock:checkout:%s", userID)

	return s.client.Del(ctx, key).Err()
}
