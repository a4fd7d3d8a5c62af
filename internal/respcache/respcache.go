// Package respcache memoizes stat responses in Redis, keyed by request
// identity. Grounded on the teacher's internal/cache: same GetRoute/
// SetRoute-by-key shape, generalized from one DTO (models.Path) to the
// five response types of internal/handler via JSON marshal/unmarshal,
// and the same "treat any cache problem as a miss" discipline.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis.Client. A nil *Cache is safe to call Get/Set on —
// Get reports a miss and Set is a no-op. Over an unreachable Redis, Get
// still reports a miss, while Set returns the Redis error for the caller
// to log and ignore, since caching is never a correctness dependency.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a Cache. addr is "host:port".
func New(addr, password string, db int, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity; callers treat a non-nil error as a startup
// (category 2) failure if the cache was explicitly requested.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("respcache: not configured")
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection. Safe to call on a nil Cache.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Key builds the cache key for a stat request: "<kind>:<hex of the first
// 16 bytes of the sha256 of the JSON-canonical request>", mirroring cache.RouteKey's "route:<hash>"
// shape but generalized across all four stat kinds.
func Key(kind string, request interface{}) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("respcache: marshal request: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", kind, sum[:16]), nil
}

// Get looks up a previously cached response and unmarshals it into out
// (a pointer to one of the handler response DTOs). found is false on a
// cache miss or on any cache error — both are treated identically by
// callers, who simply recompute.
//
// Get assumes the cached payload already matches out's shape. A stat kind
// that can answer either a success DTO or the shared not-found shape (Bus,
// Stop, Route) must use GetRaw and pick the right target itself — out's
// zero value would otherwise silently absorb a cached not-found payload's
// missing fields as zeros instead of surfacing "not found".
func Get(ctx context.Context, c *Cache, key string, out interface{}) (found bool) {
	data, ok := GetRaw(ctx, c, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

// GetRaw looks up a previously cached response and returns its raw JSON
// bytes, for callers that must inspect the payload (e.g. to tell a
// not-found shape apart from a success shape) before choosing a concrete
// type to unmarshal into.
func GetRaw(ctx context.Context, c *Cache, key string) (data []byte, found bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a response under key with the cache's configured TTL. Any
// error is swallowed by the caller (see package doc): a failed Set just
// means the next request recomputes.
func Set(ctx context.Context, c *Cache, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("respcache: marshal response: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
