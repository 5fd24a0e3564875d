package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/httputil"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// HTTPScorer calls an operator-supplied scoring endpoint. The endpoint
// receives {"name": ..., "industry": ...} and answers {"score": <0-100>}.
type HTTPScorer struct {
	client   *httputil.Client
	endpoint string
	timeout  time.Duration
}

// NewHTTPScorer wires the shared HTTP client with the enrichment
// endpoint, API key and timeout from config. ENRICH_RPM is enforced
// through the shared limiter, which no-ops when Redis is disabled.
func NewHTTPScorer(cfg *config.Config, rc *redis.Client, log *logger.Logger) *HTTPScorer {
	client := httputil.NewWithTimeout(log, cfg.Enrichment.Timeout).
		WithBearerToken(cfg.Enrichment.APIKey).
		WithRetry(2, 500*time.Millisecond).
		WithRateLimit(redis.NewRateLimiter(rc, "quantfolio"), redis.RateLimitConfig{
			Key:    "enrich_http",
			Limit:  cfg.Enrichment.RequestsPerMinute,
			Window: time.Minute,
		})

	return &HTTPScorer{
		client:   client,
		endpoint: strings.TrimRight(cfg.Enrichment.Endpoint, "/") + "/score",
		timeout:  cfg.Enrichment.Timeout,
	}
}

// Score implements contracts.QualitativeScorer.
func (s *HTTPScorer) Score(ctx context.Context, name, industry string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.PostJSON(callCtx, s.endpoint, map[string]string{
		"name":     name,
		"industry": industry,
	})
	if err != nil {
		return 0, err
	}

	var body struct {
		Score float64 `json:"score"`
	}
	if err := httputil.DecodeJSON(resp, &body); err != nil {
		return 0, err
	}

	if body.Score < 0 || body.Score > 100 {
		return 0, fmt.Errorf("score %.1f out of range", body.Score)
	}
	return body.Score, nil
}
