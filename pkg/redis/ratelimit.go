package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// retryInterval is how long Wait sleeps between Allow attempts.
const retryInterval = 100 * time.Millisecond

// slidingWindow trims entries older than the window, then admits the
// request only if the remaining count is under the limit. Compiled
// once; go-redis handles EVALSHA versus EVAL.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local cutoff = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', cutoff)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, 0}
end
redis.call('ZADD', key, now, now)
redis.call('PEXPIRE', key, ttl_ms)
return {1, limit - count - 1}
`)

// RateLimiter enforces a sliding-window limit shared across processes,
// so the scheduler and an operator-triggered run cannot jointly overrun
// a provider quota. A disabled client admits everything.
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig names one limited resource and its budget.
type RateLimitConfig struct {
	Key    string        // resource identifier, e.g. "enrich_http"
	Limit  int           // requests allowed per window
	Window time.Duration // window length
}

// NewRateLimiter returns a limiter writing under "<prefix>:ratelimit:".
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

// Allow reports whether one more request fits in the window, and how
// much budget remains after it.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	now := time.Now().UnixMilli()
	res, err := slidingWindow.Run(ctx, r.client.rdb,
		[]string{r.prefix + ":ratelimit:" + cfg.Key},
		now,
		now-cfg.Window.Milliseconds(),
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := res[0].(int64) == 1
	remaining := int(res[1].(int64))
	return allowed, remaining, nil
}

// Wait blocks until a request is admitted or the context ends.
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}
