package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExportLock is a cluster-wide single-flight guard for report exports.
// Acquire uses SET NX PX with a random token; Release deletes the key only
// while it still holds that token, so an expired holder cannot free a lock
// taken over by another instance.
type ExportLock struct {
	cache *Cache
	key   string
	ttl   time.Duration

	mu    sync.Mutex
	token string
}

// NewExportLock creates a lock stored under PrefixLock+name.
func NewExportLock(cache *Cache, name string, ttl time.Duration) *ExportLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ExportLock{cache: cache, key: PrefixLock + name, ttl: ttl}
}

// TryAcquire reports whether this caller now holds the lock.
func (l *ExportLock) TryAcquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.cache.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("redis: acquire %s: %w", l.key, err)
	}
	if !ok {
		return false, nil
	}
	l.mu.Lock()
	l.token = token
	l.mu.Unlock()
	return true, nil
}

// Release frees the lock if this instance still holds it.
func (l *ExportLock) Release(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	l.token = ""
	l.mu.Unlock()

	if token == "" {
		return nil
	}
	if _, err := l.cache.CompareAndDelete(ctx, l.key, token); err != nil {
		return fmt.Errorf("redis: release %s: %w", l.key, err)
	}
	return nil
}

// Held reports whether any instance currently holds the lock.
func (l *ExportLock) Held(ctx context.Context) (bool, error) {
	return l.cache.Exists(ctx, l.key)
}

// Key returns the Redis key backing the lock.
func (l *ExportLock) Key() string { return l.key }
