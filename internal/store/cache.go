package store

import (
	"context"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// CachedStore is a read-through cache in front of another store. Reads
// try Redis first and fall back to the inner store; a save refreshes
// the week entry and invalidates the latest pointer rather than
// guessing which week is newest. With Redis disabled every call is a
// straight pass-through.
type CachedStore struct {
	inner contracts.RecommendationStore
	cache *redis.Cache
}

// NewCachedStore wraps a store with the shared Redis client.
func NewCachedStore(inner contracts.RecommendationStore, client *redis.Client) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: redis.NewCache(client, "quantfolio"),
	}
}

// Save writes through to the inner store. Cache errors never fail a
// save; the inner store is authoritative.
func (s *CachedStore) Save(ctx context.Context, rec *contracts.Recommendation) error {
	if err := s.inner.Save(ctx, rec); err != nil {
		return err
	}

	_ = s.cache.Set(ctx, redis.RecommendationKey(rec.WeekID), rec, redis.TTLLong)
	_ = s.cache.Delete(ctx, redis.LatestRecommendationKey())
	return nil
}

// GetByWeek serves from cache when possible.
func (s *CachedStore) GetByWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	var cached contracts.Recommendation
	if found, err := s.cache.Get(ctx, redis.RecommendationKey(weekID), &cached); err == nil && found {
		return &cached, nil
	}

	rec, err := s.inner.GetByWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, redis.RecommendationKey(weekID), rec, redis.TTLLong)
	return rec, nil
}

// GetLatest serves from cache when possible.
func (s *CachedStore) GetLatest(ctx context.Context) (*contracts.Recommendation, error) {
	var cached contracts.Recommendation
	if found, err := s.cache.Get(ctx, redis.LatestRecommendationKey(), &cached); err == nil && found {
		return &cached, nil
	}

	rec, err := s.inner.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, redis.LatestRecommendationKey(), rec, redis.TTLLong)
	return rec, nil
}

// ListWeeks always hits the inner store; the listing is cheap and must
// reflect saves made by other processes immediately.
func (s *CachedStore) ListWeeks(ctx context.Context) ([]string, error) {
	return s.inner.ListWeeks(ctx)
}
