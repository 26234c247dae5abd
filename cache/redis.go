package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for list-response caching. A nil
// *Cache is valid and turns every operation into a no-op, so the
// server still runs without Redis configured.
type Cache struct {
	rdb *redis.Client
}

func Connect(addr string) *Cache {
	if addr == "" {
		log.Println("Redis disabled, no address configured")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Redis connected")
	return &Cache{rdb: rdb}
}

// GetJSON reports whether the key was present and decoded into dst.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal cache value for %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("failed to cache %s: %v", key, err)
	}
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate cache keys %v: %v", keys, err)
	}
}

func UserOrdersKey(userID uint) string {
	return fmt.Sprintf("orders:user:%d", userID)
}
