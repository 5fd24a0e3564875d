package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under a prefixed keyspace. Every
// operation on a disabled client is a no-op, so callers never branch
// on availability.
type Cache struct {
	client *Client
	prefix string
}

// NewCache returns a cache writing under "<prefix>:cache:".
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":cache:" + k
}

// Get unmarshals the cached value into dest. The bool reports whether
// the key was present; a miss is not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores value as JSON with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.client.rdb.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete drops the key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}
	return c.client.rdb.Del(ctx, c.key(key)).Err()
}

const (
	// TTLLong covers report reads between weekly runs.
	TTLLong = time.Hour
	// TTLWeekly matches the run cadence; qualitative scores older than
	// a week are refreshed by the next run anyway.
	TTLWeekly = 7 * 24 * time.Hour
)

// Cache keys, kept together so the keyspace layout is visible.

func RecommendationKey(weekID string) string {
	return "recommendation:week:" + weekID
}

func LatestRecommendationKey() string {
	return "recommendation:latest"
}

func QualitativeKey(name, industry string) string {
	return fmt.Sprintf("qualitative:%s:%s", name, industry)
}
