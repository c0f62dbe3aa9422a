package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupeStore records provider message ids that were already dispatched.
// MarkProcessed returns false when the id was seen within the TTL window,
// in which case the message must not be dispatched again.
type DedupeStore interface {
	MarkProcessed(ctx context.Context, providerMessageID string) (bool, error)
}

// MemoryDedupe is a lock-protected bounded TTL map for single-replica
// deployments. Expired entries are reaped when the map hits its cap; if
// the sweep frees nothing the oldest entry is evicted.
type MemoryDedupe struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewMemoryDedupe creates an in-memory store with the given TTL window and
// entry cap.
func NewMemoryDedupe(ttl time.Duration, maxSize int) *MemoryDedupe {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemoryDedupe{
		seen:    make(map[string]time.Time),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// MarkProcessed implements DedupeStore.
func (d *MemoryDedupe) MarkProcessed(_ context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if at, ok := d.seen[id]; ok && now.Sub(at) < d.ttl {
		return false, nil
	}

	// Reap only at capacity so the common insert stays O(1); evict the
	// oldest live entry when the sweep frees nothing.
	if len(d.seen) >= d.maxSize {
		for key, at := range d.seen {
			if now.Sub(at) >= d.ttl {
				delete(d.seen, key)
			}
		}
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
	}
	d.seen[id] = now
	return true, nil
}

func (d *MemoryDedupe) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, at := range d.seen {
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey, oldestAt = key, at
		}
	}
	if oldestKey != "" {
		delete(d.seen, oldestKey)
	}
}

// RedisDedupe shares the dedupe window across replicas using SET NX EX.
type RedisDedupe struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDedupe creates a Redis-backed store.
func NewRedisDedupe(client *redis.Client, ttl time.Duration) *RedisDedupe {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisDedupe{client: client, ttl: ttl}
}

// MarkProcessed implements DedupeStore.
func (d *RedisDedupe) MarkProcessed(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	ok, err := d.client.SetNX(ctx, "care:im:dedupe:"+id, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dispatch: redis dedupe: %w", err)
	}
	return ok, nil
}
