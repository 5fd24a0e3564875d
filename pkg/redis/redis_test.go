package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{})
	require.NoError(t, err)
	return client
}

func TestDisabledClientIsValid(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestCacheNoOpsWhenDisabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "quantfolio")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, TTLLong))

	var out map[string]int
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestRateLimiterAdmitsEverythingWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "quantfolio")
	cfg := RateLimitConfig{Key: "enrich_http", Limit: 30, Window: time.Minute}

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 30, remaining)
}

func TestWaitReturnsImmediatelyWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "quantfolio")
	cfg := RateLimitConfig{Key: "enrich_http", Limit: 1, Window: time.Minute}

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background(), cfg))
	assert.Less(t, time.Since(start), retryInterval)
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "recommendation:week:2026-W34", RecommendationKey("2026-W34"))
	assert.Equal(t, "recommendation:latest", LatestRecommendationKey())
	assert.Equal(t,
		"qualitative:Pidilite Industries:Specialty Chemicals",
		QualitativeKey("Pidilite Industries", "Specialty Chemicals"))

	cache := NewCache(disabledClient(t), "quantfolio")
	assert.Equal(t, "quantfolio:cache:recommendation:latest", cache.key(LatestRecommendationKey()))
}
