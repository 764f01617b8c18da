// Package cache is a Redis-backed cache of lex results, keyed by the
// SHA-256 of a source document's name and bytes, plus a pub/sub channel
// that lets one graphql-lexd process evict a shared document (e.g. a
// schema file polled by many workers) from every other process's cache
// when it changes on disk.
//
// Grounded on internal/script/redisrouter/router.go's publish/subscribe
// shape and internal/redishealth/monitor.go's Ping-based health check
// (adapted here as Cache.Ping).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InvalidateChannel is the Redis Pub/Sub channel used to broadcast cache
// evictions across every worker sharing this cache.
const InvalidateChannel = "lex-cache:invalidate"

// TokenRecord is the cached shape of one scanned token, independent of
// the lexer's own in-flight Token view (which aliases the source buffer
// and cannot outlive a single Advance call).
type TokenRecord struct {
	Kind   string `json:"kind"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Value  string `json:"value,omitempty"`
}

// Cache wraps a go-redis client.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Cache backed by addr, with entries expiring after ttl.
func New(addr, password string, db int, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Key returns the cache key for a named source document's bytes.
func Key(name string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(body)
	return "lex-cache:" + hex.EncodeToString(h.Sum(nil))
}

// Ping verifies the Redis connection is reachable, grounded on
// redishealth.Monitor's check method.
func (c *Cache) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the cached token list for key, or (nil, false) on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]TokenRecord, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GET %s: %w", key, err)
	}
	var tokens []TokenRecord
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, false, fmt.Errorf("decoding cached tokens for %s: %w", key, err)
	}
	return tokens, true, nil
}

// Put stores tokens under key with the Cache's configured TTL.
func (c *Cache) Put(ctx context.Context, key string, tokens []TokenRecord) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encoding tokens for %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("SET %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes key locally and publishes its eviction to every
// other process subscribed on InvalidateChannel.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("DEL %s: %w", key, err)
	}
	if err := c.rdb.Publish(ctx, InvalidateChannel, key).Err(); err != nil {
		return fmt.Errorf("PUBLISH %s: %w", InvalidateChannel, err)
	}
	return nil
}

// WatchInvalidations subscribes to InvalidateChannel, deletes each
// published key, and calls onEvict with that key. It blocks until ctx is
// cancelled.
func (c *Cache) WatchInvalidations(ctx context.Context, onEvict func(key string)) error {
	sub := c.rdb.Subscribe(ctx, InvalidateChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription channel closed")
			}
			if err := c.rdb.Del(ctx, msg.Payload).Err(); err != nil {
				continue
			}
			if onEvict != nil {
				onEvict(msg.Payload)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the underlying Redis client's connections.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
