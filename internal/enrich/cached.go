package enrich

import (
	"context"
	"time"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// CachedScorer remembers scores in Redis so each company is scored at
// most once per TTL window. Qualitative standing moves slowly; a score
// from last week is still good this week.
type CachedScorer struct {
	inner contracts.QualitativeScorer
	cache *redis.Cache
	ttl   time.Duration
}

// NewCachedScorer wraps a scorer with the shared Redis client. A zero
// TTL falls back to the weekly tier.
func NewCachedScorer(inner contracts.QualitativeScorer, client *redis.Client, ttl time.Duration) *CachedScorer {
	if ttl <= 0 {
		ttl = redis.TTLWeekly
	}
	return &CachedScorer{
		inner: inner,
		cache: redis.NewCache(client, "quantfolio"),
		ttl:   ttl,
	}
}

// Score implements contracts.QualitativeScorer. Cache errors are
// ignored; the inner scorer is the source of truth.
func (s *CachedScorer) Score(ctx context.Context, name, industry string) (float64, error) {
	key := redis.QualitativeKey(name, industry)

	var cached float64
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	score, err := s.inner.Score(ctx, name, industry)
	if err != nil {
		return 0, err
	}

	_ = s.cache.Set(ctx, key, score, s.ttl)
	return score, nil
}
