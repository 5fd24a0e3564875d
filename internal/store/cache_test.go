package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// fakeStore counts calls so tests can see whether the cache layer
// short-circuited them.
type fakeStore struct {
	saves     int
	getWeek   int
	getLatest int
	rec       *contracts.Recommendation
}

func (f *fakeStore) Save(ctx context.Context, rec *contracts.Recommendation) error {
	f.saves++
	f.rec = rec
	return nil
}

func (f *fakeStore) GetByWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	f.getWeek++
	if f.rec == nil || f.rec.WeekID != weekID {
		return nil, contracts.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeStore) GetLatest(ctx context.Context) (*contracts.Recommendation, error) {
	f.getLatest++
	if f.rec == nil {
		return nil, contracts.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeStore) ListWeeks(ctx context.Context) ([]string, error) {
	if f.rec == nil {
		return nil, nil
	}
	return []string{f.rec.WeekID}, nil
}

func disabledRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestCachedStorePassesThroughWhenRedisDisabled(t *testing.T) {
	inner := &fakeStore{}
	s := NewCachedStore(inner, disabledRedis(t))
	ctx := context.Background()

	rec := sampleRecommendation("2026-W34", time.Now().UTC())
	require.NoError(t, s.Save(ctx, rec))
	assert.Equal(t, 1, inner.saves)

	// With the cache disabled every read reaches the inner store.
	for i := 0; i < 2; i++ {
		got, err := s.GetByWeek(ctx, "2026-W34")
		require.NoError(t, err)
		assert.Equal(t, "2026-W34", got.WeekID)
	}
	assert.Equal(t, 2, inner.getWeek)

	for i := 0; i < 2; i++ {
		_, err := s.GetLatest(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.getLatest)

	weeks, err := s.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-W34"}, weeks)
}

func TestCachedStorePropagatesNotFound(t *testing.T) {
	s := NewCachedStore(&fakeStore{}, disabledRedis(t))

	_, err := s.GetByWeek(context.Background(), "2026-W01")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))

	_, err = s.GetLatest(context.Background())
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}
