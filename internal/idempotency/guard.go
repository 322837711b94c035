// internal/idempotency/guard.go
package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard deduplicates checkout requests carrying an idempotency key.
type Guard interface {
	// Acquire claims the key. It returns false if the key was already
	// claimed by an earlier request.
	Acquire(ctx context.Context, key string) (bool, error)
}

const keyPrefix = "checkout:idem:"

// RedisGuard claims keys with SETNX and a TTL so abandoned keys expire.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
}

// MemoryGuard is an in-process Guard for tests and single-instance
// deployments without Redis.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]bool)}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}
