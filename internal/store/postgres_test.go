package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	// Skip if DATABASE_URL is not set
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	s := NewPostgresStore(pool)
	require.NoError(t, s.EnsureSchema(ctx))

	// A week far in the past so the test never collides with real runs.
	const week = "1999-W01"
	defer pool.Exec(ctx, `DELETE FROM recommendations WHERE week_id = $1`, week)

	saved := sampleRecommendation(week, time.Date(1999, 1, 8, 18, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, saved))

	got, err := s.GetByWeek(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	require.Len(t, got.Allocation.Positions, 1)
	assert.Equal(t, "PIDILITIND", got.Allocation.Positions[0].NSECode)

	// Upsert replaces the row.
	saved.Allocation.CashPercent = 100
	require.NoError(t, s.Save(ctx, saved))
	got, err = s.GetByWeek(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Allocation.CashPercent)

	weeks, err := s.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Contains(t, weeks, week)

	_, err = s.GetByWeek(ctx, "1998-W52")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}
