package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// neutralQualitative stands in when the scorer cannot answer. Neutral
// neither rewards nor punishes a stock downstream.
const neutralQualitative = 50

// Config bounds the enrichment pass.
type Config struct {
	// MaxQualitative is how many of the top-ranked names go to the
	// qualitative scorer.
	MaxQualitative int `yaml:"max_qualitative"`
	// MaxContrarian caps the contrarian list.
	MaxContrarian int `yaml:"max_contrarian"`
	// MaxForecasts caps the forecast bands.
	MaxForecasts int `yaml:"max_forecasts"`
	// Budget bounds the whole pass; zero disables the bound.
	Budget time.Duration `yaml:"budget"`
}

// DefaultConfig returns the standard enrichment bounds.
func DefaultConfig() Config {
	return Config{
		MaxQualitative: 15,
		MaxContrarian:  5,
		MaxForecasts:   5,
		Budget:         2 * time.Minute,
	}
}

// Enricher computes the optional extras of a weekly report. Nothing in
// here may fail the run: provider trouble turns into neutral scores and
// a note in the output.
type Enricher struct {
	config Config
	scorer contracts.QualitativeScorer
	logger *logger.Logger
}

// New creates an enricher. A nil scorer turns qualitative scoring off;
// the derived sections still run.
func New(cfg Config, scorer contracts.QualitativeScorer, log *logger.Logger) *Enricher {
	return &Enricher{
		config: cfg,
		scorer: scorer,
		logger: log,
	}
}

// Enrich builds the enrichment block for one scored run. The universe
// supplies raw returns for the sector trends; results must arrive
// ranked. Qualitative scores are also stamped onto the results.
func (e *Enricher) Enrich(ctx context.Context, universe []contracts.StockRecord, results []contracts.CompositeResult) *contracts.Enrichment {
	if e.config.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Budget)
		defer cancel()
	}

	enrichment := &contracts.Enrichment{
		Contrarian:   e.contrarian(results),
		SectorTrends: e.sectorTrends(universe, results),
		Forecasts:    e.forecasts(results),
	}
	e.qualitative(ctx, results, enrichment)

	e.logger.WithFields(map[string]interface{}{
		"qualitative": len(enrichment.QualitativeScores),
		"contrarian":  len(enrichment.Contrarian),
		"sectors":     len(enrichment.SectorTrends),
		"forecasts":   len(enrichment.Forecasts),
	}).Info("Enrichment completed")

	return enrichment
}

// qualitative scores the best-ranked survivors. A failed call takes the
// neutral default for that name and the pass keeps going; once the
// budget context expires the remaining calls fail fast the same way.
func (e *Enricher) qualitative(ctx context.Context, results []contracts.CompositeResult, out *contracts.Enrichment) {
	if e.scorer == nil || e.config.MaxQualitative <= 0 {
		return
	}

	scores := make(map[string]float64)
	failed := 0
	for i := range results {
		if len(scores) >= e.config.MaxQualitative {
			break
		}
		r := &results[i]
		if r.IsExcluded() {
			continue
		}

		score, err := e.scorer.Score(ctx, r.Name, r.Industry)
		if err != nil {
			failed++
			score = neutralQualitative
		}
		scores[r.Key()] = score
		r.Qualitative = score
	}

	out.QualitativeScores = scores
	if failed > 0 {
		out.Notes = append(out.Notes, fmt.Sprintf(
			"qualitative scoring degraded: %d of %d names took the neutral default",
			failed, len(scores)))
		e.logger.WithFields(map[string]interface{}{
			"failed": failed,
			"scored": len(scores),
		}).Warn("Qualitative scorer degraded")
	}
}
