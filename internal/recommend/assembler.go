package recommend

import (
	"fmt"
	"time"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/selection"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Config sizes the narrative sections of the weekly report.
type Config struct {
	// TopPickCount is how many of the largest positions get the full
	// strengths/risks treatment.
	TopPickCount int `yaml:"top_pick_count"`
	// WatchlistSize caps the stocks listed as worth watching but not
	// sized into the book.
	WatchlistSize int `yaml:"watchlist_size"`
}

// DefaultConfig returns the standard report shape.
func DefaultConfig() Config {
	return Config{
		TopPickCount:  5,
		WatchlistSize: 8,
	}
}

// Thresholds the pick commentary reads off the layer scores.
const (
	strongSafety      = 70
	strongFundamental = 70
	strongValuation   = 60
	strongMomentum    = 60
	strongExternal    = 65

	weakSafety      = 50
	weakFundamental = 50
	weakValuation   = 45
	weakMomentum    = 45
	weakExternal    = 40

	// watchlistFloor is the composite a stock needs to be worth
	// watching without making the book.
	watchlistFloor = 50
)

// Assembler packages one run's scoring and sizing output into a single
// Recommendation keyed by ISO week.
type Assembler struct {
	config Config
	logger *logger.Logger
}

// NewAssembler creates a report assembler.
func NewAssembler(config Config, log *logger.Logger) *Assembler {
	return &Assembler{
		config: config,
		logger: log,
	}
}

// WeekID returns the ISO week identifier for a run date, e.g. "2026-W34".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Build assembles the weekly recommendation from ranked results and the
// sized allocation. Results are expected in rank order.
func (a *Assembler) Build(runID string, runDate time.Time, condition contracts.MarketCondition, results []contracts.CompositeResult, alloc contracts.PortfolioAllocation) contracts.Recommendation {
	rec := contracts.Recommendation{
		ID:              runID,
		WeekID:          WeekID(runDate),
		GeneratedAt:     runDate,
		MarketCondition: condition,
		Weights:         selection.WeightsFor(condition),
		Allocation:      alloc,
		UniverseSize:    len(results),
		Results:         results,
	}

	byKey := make(map[string]*contracts.CompositeResult, len(results))
	for i := range results {
		r := &results[i]
		byKey[r.Key()] = r
		if r.Gate.Passed {
			rec.PassedGate++
		}
	}

	rec.TopPicks = a.topPicks(alloc, byKey)
	rec.Watchlist = a.watchlist(results, alloc)
	rec.Exclusions = exclusionHistogram(results)

	a.logger.WithFields(map[string]interface{}{
		"week_id":   rec.WeekID,
		"positions": alloc.Count(),
		"top_picks": len(rec.TopPicks),
		"watchlist": len(rec.Watchlist),
	}).Info("Recommendation assembled")

	return rec
}

// topPicks annotates the largest positions with what the layers liked
// and disliked about them.
func (a *Assembler) topPicks(alloc contracts.PortfolioAllocation, byKey map[string]*contracts.CompositeResult) []contracts.TopPick {
	count := a.config.TopPickCount
	if count > len(alloc.Positions) {
		count = len(alloc.Positions)
	}

	picks := make([]contracts.TopPick, 0, count)
	for i := 0; i < count; i++ {
		p := alloc.Positions[i]
		pick := contracts.TopPick{
			Name:      p.Name,
			NSECode:   p.NSECode,
			Composite: p.Composite,
			Weight:    p.Weight,
			Label:     p.Label,
		}
		if r, ok := byKey[p.Key()]; ok {
			pick.Strengths = strengthsFor(r)
			pick.Risks = risksFor(r)
		}
		picks = append(picks, pick)
	}
	return picks
}

// watchlist lists gate-passed stocks scoring well enough to track but
// absent from the sized book, in rank order.
func (a *Assembler) watchlist(results []contracts.CompositeResult, alloc contracts.PortfolioAllocation) []contracts.WatchItem {
	allocated := make(map[string]bool, len(alloc.Positions))
	for _, p := range alloc.Positions {
		allocated[p.Key()] = true
	}

	var items []contracts.WatchItem
	for i := range results {
		if len(items) == a.config.WatchlistSize {
			break
		}
		r := &results[i]
		if !r.Gate.Passed || r.Composite < watchlistFloor || allocated[r.Key()] {
			continue
		}
		items = append(items, contracts.WatchItem{
			Name:      r.Name,
			NSECode:   r.NSECode,
			Composite: r.Composite,
			Label:     r.Label,
		})
	}
	return items
}

func strengthsFor(r *contracts.CompositeResult) []string {
	var strengths []string
	if r.Safety.Score >= strongSafety {
		strengths = append(strengths, "Low risk profile")
	}
	if r.Fundamental.Score >= strongFundamental {
		strengths = append(strengths, "Strong fundamentals")
	}
	if r.Valuation.Score >= strongValuation {
		strengths = append(strengths, "Trading below fair value")
	}
	if r.Momentum.Score >= strongMomentum {
		strengths = append(strengths, "Healthy price trend")
	}
	if r.External.Score >= strongExternal {
		strengths = append(strengths, "Sector momentum in favor")
	}
	return strengths
}

// risksFor combines weak layer scores with the gate's warnings.
func risksFor(r *contracts.CompositeResult) []string {
	var risks []string
	if r.Safety.Score < weakSafety {
		risks = append(risks, "Elevated risk profile")
	}
	if r.Fundamental.Score < weakFundamental {
		risks = append(risks, "Patchy fundamentals")
	}
	if r.Valuation.Score < weakValuation {
		risks = append(risks, "Rich valuation")
	}
	if r.Momentum.Score < weakMomentum {
		risks = append(risks, "Weak price trend")
	}
	if r.External.Score < weakExternal {
		risks = append(risks, "Sector headwinds")
	}
	risks = append(risks, r.Gate.Warnings...)
	return risks
}

// exclusionHistogram counts gate failure reasons across the universe.
func exclusionHistogram(results []contracts.CompositeResult) map[string]int {
	histogram := make(map[string]int)
	for i := range results {
		for _, reason := range results[i].Gate.Failures {
			histogram[reason]++
		}
	}
	if len(histogram) == 0 {
		return nil
	}
	return histogram
}
