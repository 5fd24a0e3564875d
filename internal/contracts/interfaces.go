package contracts

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no recommendation matches.
var ErrNotFound = errors.New("recommendation not found")

// RecommendationStore persists weekly recommendations keyed by week ID.
type RecommendationStore interface {
	Save(ctx context.Context, rec *Recommendation) error
	GetLatest(ctx context.Context) (*Recommendation, error)
	GetByWeek(ctx context.Context, weekID string) (*Recommendation, error)
	ListWeeks(ctx context.Context) ([]string, error)
}

// QualitativeScorer produces an optional 0-100 qualitative score for a
// company. Implementations are expected to be slow and unreliable; callers
// must bound them with a timeout and fall back to a neutral default.
type QualitativeScorer interface {
	Score(ctx context.Context, name, industry string) (float64, error)
}
