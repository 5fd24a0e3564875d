package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/niveshquant/quantfolio/internal/sectors"
)

// ValidationError pinpoints the offending field using its YAML path.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a non-fatal advisory: the config is usable but a setting
// looks like it may not do what the author intended.
type Warning struct {
	Code    string
	Message string
}

// Validate checks hard constraints and returns the first violation.
// A config that passes here cannot make the pipeline divide by zero,
// loop forever or emit weights that contradict each other.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}

	// === Gate ===
	g := cfg.Gate
	if err := validatePct(g.MinPromoterHolding, "gate.min_promoter_holding"); err != nil {
		return err
	}
	if g.MaxPromoterSellingPts < 0 {
		return ValidationError{"gate.max_promoter_selling_pts", "must be >= 0"}
	}
	if g.MinMarketCap <= 0 {
		return ValidationError{"gate.min_market_cap", "must be > 0"}
	}
	if g.MinMonthlyVolume < 0 {
		return ValidationError{"gate.min_monthly_volume", "must be >= 0"}
	}
	if g.ROCEAvgFactor <= 0 || g.ROCEAvgFactor > 1 {
		return ValidationError{"gate.roce_avg_factor", "must be in range (0, 1]"}
	}

	// === Scoring ===
	if math.Abs(cfg.Scoring.MarketBaseline3M) > 50 {
		return ValidationError{"scoring.market_baseline_3m", "must be in range [-50, 50]"}
	}
	if !oneOf(cfg.Scoring.Macro.RateCycle, "easing", "neutral", "tightening") {
		return ValidationError{"scoring.macro.rate_cycle", "must be easing, neutral or tightening"}
	}
	if !oneOf(cfg.Scoring.Macro.Currency, "weakening", "stable", "strengthening") {
		return ValidationError{"scoring.macro.currency", "must be weakening, stable or strengthening"}
	}

	// === Allocation ===
	a := cfg.Allocation
	if a.TargetEquityAllocation <= 0 || a.TargetEquityAllocation > 100 {
		return ValidationError{"allocation.target_equity_allocation", "must be in range (0, 100]"}
	}
	if err := validatePct(a.MinCompositeScore, "allocation.min_composite_score"); err != nil {
		return err
	}
	if a.MaxCandidates < 1 {
		return ValidationError{"allocation.max_candidates", "must be >= 1"}
	}
	if a.SectorCap <= 0 || a.SectorCap > 100 {
		return ValidationError{"allocation.sector_cap", "must be in range (0, 100]"}
	}
	if a.MaxSectorPasses < 1 {
		return ValidationError{"allocation.max_sector_passes", "must be >= 1"}
	}
	if a.Top5Cap <= 0 || a.Top5Cap > 100 {
		return ValidationError{"allocation.top5_cap", "must be in range (0, 100]"}
	}
	if a.MinStockWeight < 0 {
		return ValidationError{"allocation.min_stock_weight", "must be >= 0"}
	}
	if a.CapDefault <= 0 {
		return ValidationError{"allocation.cap_default", "must be > 0"}
	}
	if a.CapDefault > a.CapSafety55 || a.CapSafety55 > a.CapSafety65 || a.CapSafety65 > a.CapSafety75 {
		return ValidationError{"allocation", "safety tier caps must not shrink as safety rises"}
	}
	if a.CapSafety75 > a.SectorCap {
		return ValidationError{"allocation.cap_safety_75", "must be <= sector_cap"}
	}
	if a.CapSafety75 > a.Top5Cap {
		return ValidationError{"allocation.cap_safety_75", "must be <= top5_cap"}
	}
	if a.MinStockWeight > a.CapDefault {
		return ValidationError{"allocation.min_stock_weight", "must be <= cap_default"}
	}

	// === Report ===
	if cfg.Report.TopPickCount < 1 {
		return ValidationError{"report.top_pick_count", "must be >= 1"}
	}
	if cfg.Report.WatchlistSize < 0 {
		return ValidationError{"report.watchlist_size", "must be >= 0"}
	}

	// === Sector overrides ===
	// Sorted so the first error is the same on every run.
	industries := make([]string, 0, len(cfg.Sectors))
	for industry := range cfg.Sectors {
		industries = append(industries, industry)
	}
	sort.Strings(industries)
	for _, industry := range industries {
		o := cfg.Sectors[industry]
		if o.ROCEThreshold <= 0 {
			return ValidationError{fmt.Sprintf("sectors.%s.roce_threshold", industry), "must be > 0"}
		}
		if o.DebtThreshold <= 0 {
			return ValidationError{fmt.Sprintf("sectors.%s.debt_threshold", industry), "must be > 0"}
		}
		switch sectors.Cyclicality(o.Cyclicality) {
		case sectors.CyclicalityHigh, sectors.CyclicalityMedium, sectors.CyclicalityLow:
		default:
			return ValidationError{fmt.Sprintf("sectors.%s.cyclicality", industry), "must be high, medium or low"}
		}
		if o.Group == "" {
			return ValidationError{fmt.Sprintf("sectors.%s.group", industry), "required"}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal).
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Gate.MinPromoterHolding < 26 {
		warnings = append(warnings, Warning{
			Code:    "LOW_PROMOTER_BAR",
			Message: "promoter floor below 26%: a stake that small cannot block special resolutions",
		})
	}
	if cfg.Gate.MinMonthlyVolume < 5000 {
		warnings = append(warnings, Warning{
			Code:    "LOW_LIQUIDITY_BAR",
			Message: "monthly volume floor below 5000 shares: illiquid names may pass the gate",
		})
	}
	if cfg.Scoring.MarketBaseline3M > 15 {
		warnings = append(warnings, Warning{
			Code:    "HIGH_MARKET_BASELINE",
			Message: "3-month baseline above 15%: most stocks will score as laggards",
		})
	}
	if cfg.Allocation.TargetEquityAllocation > 95 {
		warnings = append(warnings, Warning{
			Code:    "THIN_CASH_BUFFER",
			Message: "equity target above 95%: little cash left to absorb drawdowns",
		})
	}
	if cfg.Allocation.SectorCap > 30 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_SECTOR_CAP",
			Message: "sector cap above 30%: one sector can dominate the book",
		})
	}
	if cfg.Allocation.MinCompositeScore < 40 {
		warnings = append(warnings, Warning{
			Code:    "LOW_ELIGIBILITY_BAR",
			Message: "composite floor below 40: borderline stocks become sizeable positions",
		})
	}

	return warnings
}

// === Helper Functions ===

// validatePct checks a percentage value in [0, 100].
func validatePct(v float64, field string) error {
	if v < 0 || v > 100 {
		return ValidationError{field, "must be in range [0, 100]"}
	}
	return nil
}

func oneOf(value string, options ...string) bool {
	for _, o := range options {
		if value == o {
			return true
		}
	}
	return false
}
