package allocation

import (
	"math"
	"sort"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Config defines the position sizing parameters. All weights and caps
// are percentage points of the whole portfolio.
type Config struct {
	// TargetEquityAllocation is the equity share the book aims for; the
	// rest stays in cash.
	TargetEquityAllocation float64 `yaml:"target_equity_allocation"`
	// MinCompositeScore is the eligibility floor.
	MinCompositeScore float64 `yaml:"min_composite_score"`
	// MaxCandidates caps the pool taken into sizing.
	MaxCandidates int `yaml:"max_candidates"`
	// SectorCap bounds any one sector group.
	SectorCap float64 `yaml:"sector_cap"`
	// MaxSectorPasses bounds the sector rebalancing loop.
	MaxSectorPasses int `yaml:"max_sector_passes"`
	// Top5Cap bounds the five largest positions combined.
	Top5Cap float64 `yaml:"top5_cap"`
	// MinStockWeight prunes positions too small to matter.
	MinStockWeight float64 `yaml:"min_stock_weight"`

	// Per-stock ceilings by safety tier. A safer stock may carry more
	// weight; the ceiling never scales a weight up.
	CapSafety75 float64 `yaml:"cap_safety_75"`
	CapSafety65 float64 `yaml:"cap_safety_65"`
	CapSafety55 float64 `yaml:"cap_safety_55"`
	CapDefault  float64 `yaml:"cap_default"`
}

// DefaultConfig returns the standard sizing parameters.
func DefaultConfig() Config {
	return Config{
		TargetEquityAllocation: 90,
		MinCompositeScore:      45,
		MaxCandidates:          20,
		SectorCap:              25,
		MaxSectorPasses:        10,
		Top5Cap:                50,
		MinStockWeight:         2,
		CapSafety75:            12,
		CapSafety65:            10,
		CapSafety55:            8,
		CapDefault:             5,
	}
}

// Engine turns ranked composites into portfolio weights. Build is
// deterministic: a fixed sequence of passes over a flat weight vector,
// every loop bounded.
type Engine struct {
	config Config
	logger *logger.Logger
}

// NewEngine creates a sizing engine.
func NewEngine(config Config, log *logger.Logger) *Engine {
	return &Engine{
		config: config,
		logger: log,
	}
}

// candidate is one stock moving through the sizing passes.
type candidate struct {
	result     *contracts.CompositeResult
	conviction float64
	weight     float64
	cap        float64
}

// Build sizes the portfolio from scored results. Gate failures and weak
// composites never make it in; with nothing eligible the book is 100%
// cash.
func (e *Engine) Build(results []contracts.CompositeResult) contracts.PortfolioAllocation {
	// 1. Eligibility: strong enough composites, pool capped.
	candidates := e.eligible(results)
	if len(candidates) == 0 {
		e.logger.Warn("No eligible stocks, holding cash")
		return contracts.PortfolioAllocation{
			CashPercent: 100,
			Warnings:    []string{"no stocks cleared the eligibility bar, portfolio is fully in cash"},
		}
	}

	// 2.-3. Conviction-proportional share of the equity target.
	e.assignRawWeights(candidates)

	// 4. Per-stock safety ceilings.
	for _, c := range candidates {
		c.cap = e.capFor(c.result.Safety.Score)
		if c.weight > c.cap {
			c.weight = c.cap
		}
	}

	// 5. Sector-group caps, iterative but bounded.
	e.applySectorCaps(candidates)

	// 6. Concentration cap on the five largest positions.
	e.applyTop5Cap(candidates)

	// 7. Prune dust. The freed weight is not redistributed here.
	survivors := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.weight >= e.config.MinStockWeight {
			survivors = append(survivors, c)
		}
	}
	if len(survivors) == 0 {
		e.logger.Warn("Every candidate fell below the minimum weight, holding cash")
		return contracts.PortfolioAllocation{
			CashPercent: 100,
			Warnings:    []string{"all candidate weights fell below the minimum, portfolio is fully in cash"},
		}
	}

	// 8. Normalize toward the equity target and settle rounding.
	e.normalize(survivors)

	// 9. Assemble, cash takes the remainder.
	alloc := e.assemble(survivors)

	e.logger.WithFields(map[string]interface{}{
		"positions": len(alloc.Positions),
		"equity":    alloc.EquityPercent(),
		"cash":      alloc.CashPercent,
	}).Info("Portfolio constructed")

	return alloc
}

// eligible filters and pools candidates: gate-passed, composite at the
// floor, top N by composite with snapshot order breaking ties.
func (e *Engine) eligible(results []contracts.CompositeResult) []*candidate {
	pool := make([]*candidate, 0, len(results))
	for i := range results {
		r := &results[i]
		if !r.Gate.Passed || r.IsExcluded() {
			continue
		}
		if r.Composite < e.config.MinCompositeScore {
			continue
		}
		pool = append(pool, &candidate{result: r})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].result.Composite > pool[j].result.Composite
	})
	if len(pool) > e.config.MaxCandidates {
		pool = pool[:e.config.MaxCandidates]
	}
	return pool
}

// assignRawWeights computes conviction and hands out the equity target
// proportionally. Safety can halve conviction but never zero it.
func (e *Engine) assignRawWeights(candidates []*candidate) {
	var total float64
	for _, c := range candidates {
		safetyFactor := math.Max(0.5, c.result.Safety.Score/100)
		c.conviction = c.result.Composite * safetyFactor
		total += c.conviction
	}
	if total == 0 {
		return
	}
	for _, c := range candidates {
		c.weight = e.config.TargetEquityAllocation * c.conviction / total
	}
}

// capFor returns the per-stock ceiling for a safety score.
func (e *Engine) capFor(safety float64) float64 {
	switch {
	case safety >= 75:
		return e.config.CapSafety75
	case safety >= 65:
		return e.config.CapSafety65
	case safety >= 55:
		return e.config.CapSafety55
	default:
		return e.config.CapDefault
	}
}

// applySectorCaps scales down every member of an over-cap sector group
// by cap/total. Each pass strictly shrinks the excess and never grows
// another sector, so the pass budget is generous.
func (e *Engine) applySectorCaps(candidates []*candidate) {
	for pass := 0; pass < e.config.MaxSectorPasses; pass++ {
		totals := make(map[string]float64)
		for _, c := range candidates {
			totals[c.result.SectorGroup] += c.weight
		}

		rebalanced := false
		for group, total := range totals {
			if total <= e.config.SectorCap+1e-9 {
				continue
			}
			factor := e.config.SectorCap / total
			for _, c := range candidates {
				if c.result.SectorGroup == group {
					c.weight *= factor
				}
			}
			rebalanced = true
		}

		if !rebalanced {
			return
		}
	}
}

// applyTop5Cap scales only the five largest positions when their sum
// exceeds the concentration cap.
func (e *Engine) applyTop5Cap(candidates []*candidate) {
	if len(candidates) <= 1 {
		return
	}

	byWeight := make([]*candidate, len(candidates))
	copy(byWeight, candidates)
	sort.SliceStable(byWeight, func(i, j int) bool {
		return byWeight[i].weight > byWeight[j].weight
	})

	top := byWeight
	if len(top) > 5 {
		top = top[:5]
	}

	var sum float64
	for _, c := range top {
		sum += c.weight
	}
	if sum <= e.config.Top5Cap {
		return
	}

	factor := e.config.Top5Cap / sum
	for _, c := range top {
		c.weight *= factor
	}
}

// normalize rescales survivors toward the equity target without pushing
// any stock past its ceiling or any sector group past its cap, rounds to
// one decimal, and parks the rounding residual on the largest position.
// When every position is pinned at a cap the book simply holds more
// cash. The raw weights summed to the target before the caps, so the
// factor here is always a scale-up.
func (e *Engine) normalize(survivors []*candidate) {
	var sum float64
	sectorTotals := make(map[string]float64)
	for _, c := range survivors {
		sum += c.weight
		sectorTotals[c.result.SectorGroup] += c.weight
	}
	if sum == 0 {
		return
	}

	factor := e.config.TargetEquityAllocation / sum
	for _, c := range survivors {
		scale := factor
		if total := sectorTotals[c.result.SectorGroup]; total > 0 {
			if headroom := e.config.SectorCap / total; headroom < scale {
				scale = headroom
			}
		}
		if scale < 1 {
			scale = 1
		}
		c.weight *= scale
		if c.weight > c.cap {
			c.weight = c.cap
		}
	}

	// The scale-up can push the five largest past their combined cap
	// again; shrink them back before settling the rounding.
	e.applyTop5Cap(survivors)

	var preRound float64
	for _, c := range survivors {
		preRound += c.weight
	}

	var rounded float64
	largest := survivors[0]
	for _, c := range survivors {
		c.weight = round1(c.weight)
		rounded += c.weight
		if c.weight > largest.weight {
			largest = c
		}
	}

	residual := round1(preRound - rounded)
	if residual != 0 {
		largest.weight = round1(largest.weight + residual)
		if largest.weight > largest.cap {
			largest.weight = largest.cap
		}
	}
}

// assemble builds the final allocation sorted by weight descending.
func (e *Engine) assemble(survivors []*candidate) contracts.PortfolioAllocation {
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].weight > survivors[j].weight
	})

	alloc := contracts.PortfolioAllocation{
		Positions:       make([]contracts.Position, 0, len(survivors)),
		SectorBreakdown: make(map[string]float64),
	}

	var equity float64
	for _, c := range survivors {
		alloc.Positions = append(alloc.Positions, contracts.Position{
			Name:        c.result.Name,
			NSECode:     c.result.NSECode,
			SectorGroup: c.result.SectorGroup,
			Weight:      c.weight,
			Conviction:  round1(c.conviction),
			Composite:   c.result.Composite,
			Safety:      c.result.Safety.Score,
			Label:       c.result.Label,
		})
		alloc.SectorBreakdown[c.result.SectorGroup] += c.weight
		equity += c.weight
	}

	for group, total := range alloc.SectorBreakdown {
		alloc.SectorBreakdown[group] = round1(total)
	}
	alloc.CashPercent = round1(100 - equity)

	return alloc
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
