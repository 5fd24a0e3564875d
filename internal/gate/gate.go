package gate

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Hard failure reasons. These are histogram keys in the weekly report, so
// they carry thresholds but never per-stock values.
const (
	ReasonWeakProfitability = "profitability below sector standard"
	ReasonLowPromoterStake  = "promoter holding below minimum"
	ReasonSmallCap          = "market cap below ₹300 Cr"
)

// Config holds the gate thresholds.
type Config struct {
	// MinPromoterHolding disqualifies promoter-run companies where the
	// stake is nonzero but too small to block special resolutions.
	MinPromoterHolding float64 `yaml:"min_promoter_holding"`
	// MaxPromoterSellingPts is the tolerated quarterly drop in promoter
	// holding before a warning (percentage points).
	MaxPromoterSellingPts float64 `yaml:"max_promoter_selling_pts"`
	// MinMarketCap in INR crore.
	MinMarketCap float64 `yaml:"min_market_cap"`
	// MinMonthlyVolume in shares per month.
	MinMonthlyVolume float64 `yaml:"min_monthly_volume"`
	// Composite quality score floors; clearing any one of the three is
	// enough.
	MinBalanceSheetScore float64 `yaml:"min_balance_sheet_score"`
	MinCANSLIMScore      float64 `yaml:"min_canslim_score"`
	MinMasterScore       float64 `yaml:"min_master_score"`
	// MinCashStrappedSalesGrowth: negative operating cash flow is
	// tolerated only above this 3-year sales growth (%).
	MinCashStrappedSalesGrowth float64 `yaml:"min_cash_strapped_sales_growth"`
	MinDebtQualityScore        float64 `yaml:"min_debt_quality_score"`
	// ROCEAvgFactor scales the sector ROCE threshold for the 3-year
	// average check.
	ROCEAvgFactor float64 `yaml:"roce_avg_factor"`
}

// DefaultConfig returns the standard gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinPromoterHolding:         26,
		MaxPromoterSellingPts:      2,
		MinMarketCap:               300,
		MinMonthlyVolume:           5000,
		MinBalanceSheetScore:       5,
		MinCANSLIMScore:            1,
		MinMasterScore:             6,
		MinCashStrappedSalesGrowth: 20,
		MinDebtQualityScore:        1,
		ROCEAvgFactor:              0.8,
	}
}

// Gate applies the quality checks that decide whether a stock may be
// scored at all. Check is pure: same record, same result.
type Gate struct {
	sectors *sectors.Table
	config  Config
}

// New creates a quality gate over the shared sector table.
func New(table *sectors.Table, config Config) *Gate {
	return &Gate{
		sectors: table,
		config:  config,
	}
}

// Check runs every gate check against one stock. Checks run in priority
// order and all of them run: a stock that fails early still collects the
// remaining warnings for the report.
func (g *Gate) Check(stock contracts.StockRecord) contracts.GateResult {
	result := contracts.GateResult{Passed: true}
	profile := g.sectors.Lookup(stock.Industry)

	// 1. Profitability: at least 2 of 3 checks must hold
	if passes := g.profitabilityPasses(stock, profile); passes < 2 {
		result.Fail(ReasonWeakProfitability)
	}

	// 2. Promoter holding
	if stock.PromoterHolding > 0 && stock.PromoterHolding < g.config.MinPromoterHolding {
		result.Fail(ReasonLowPromoterStake)
	}
	if stock.PromoterHoldingChange < -g.config.MaxPromoterSellingPts {
		result.Warn(fmt.Sprintf("promoter holding fell %.1f pts over the quarter",
			-stock.PromoterHoldingChange))
	}

	// 3. Size and liquidity
	if stock.MarketCap < g.config.MinMarketCap {
		result.Fail(ReasonSmallCap)
	}
	if stock.MonthlyVolume < g.config.MinMonthlyVolume {
		result.Warn(fmt.Sprintf("monthly volume below %.0f shares", g.config.MinMonthlyVolume))
	}

	// 4. Composite quality scores: any one clearing its bar is enough
	if stock.BalanceSheetScore < g.config.MinBalanceSheetScore &&
		stock.CANSLIMScore < g.config.MinCANSLIMScore &&
		stock.MasterScore < g.config.MinMasterScore {
		result.Warn("no composite quality score above threshold")
	}

	// 5. Cash flow. High-cyclicality sectors routinely run capex-heavy
	// years with negative cash flow, so the warning is suppressed there.
	if stock.OperatingCashFlow < 0 &&
		stock.SalesGrowth3Yr < g.config.MinCashStrappedSalesGrowth &&
		profile.Cyclicality != sectors.CyclicalityHigh {
		result.Warn("negative operating cash flow without offsetting sales growth")
	}

	// 6. Debt quality. Lenders are leveraged by construction; skip them.
	if !g.sectors.IsFinancial(stock.Industry) &&
		stock.DebtQualityScore < g.config.MinDebtQualityScore {
		result.Warn("weak debt quality score")
	}

	return result
}

// CheckAll gates the whole universe, keyed by stock key.
func (g *Gate) CheckAll(stocks []contracts.StockRecord) map[string]contracts.GateResult {
	results := make(map[string]contracts.GateResult, len(stocks))
	for i := range stocks {
		results[stocks[i].Key()] = g.Check(stocks[i])
	}
	return results
}

// profitabilityPasses counts how many of the three profitability checks
// hold: current ROCE at the sector threshold, the 3-year average near it,
// and the current value not below the average.
func (g *Gate) profitabilityPasses(stock contracts.StockRecord, profile sectors.Profile) int {
	passes := 0
	if stock.ROCE >= profile.ROCEThreshold {
		passes++
	}
	if stock.ROCE3YrAvg >= g.config.ROCEAvgFactor*profile.ROCEThreshold {
		passes++
	}
	if stock.ROCE >= stock.ROCE3YrAvg {
		passes++
	}
	return passes
}

// Summarize counts hard failures by reason across gate results.
func Summarize(results map[string]contracts.GateResult) map[string]int {
	summary := make(map[string]int)
	for _, result := range results {
		for _, reason := range result.Failures {
			summary[reason]++
		}
	}
	return summary
}
