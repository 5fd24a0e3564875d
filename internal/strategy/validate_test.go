package strategy

import (
	"testing"
)

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"missing version", func(c *Config) { c.Meta.Version = "" }, "meta.version"},
		{"promoter floor out of range", func(c *Config) { c.Gate.MinPromoterHolding = 120 }, "gate.min_promoter_holding"},
		{"negative selling tolerance", func(c *Config) { c.Gate.MaxPromoterSellingPts = -1 }, "gate.max_promoter_selling_pts"},
		{"zero market cap floor", func(c *Config) { c.Gate.MinMarketCap = 0 }, "gate.min_market_cap"},
		{"negative volume floor", func(c *Config) { c.Gate.MinMonthlyVolume = -1 }, "gate.min_monthly_volume"},
		{"roce factor above one", func(c *Config) { c.Gate.ROCEAvgFactor = 1.2 }, "gate.roce_avg_factor"},
		{"baseline out of range", func(c *Config) { c.Scoring.MarketBaseline3M = 80 }, "scoring.market_baseline_3m"},
		{"unknown rate cycle", func(c *Config) { c.Scoring.Macro.RateCycle = "sideways" }, "scoring.macro.rate_cycle"},
		{"unknown currency view", func(c *Config) { c.Scoring.Macro.Currency = "volatile" }, "scoring.macro.currency"},
		{"equity target above 100", func(c *Config) { c.Allocation.TargetEquityAllocation = 120 }, "allocation.target_equity_allocation"},
		{"composite floor above 100", func(c *Config) { c.Allocation.MinCompositeScore = 101 }, "allocation.min_composite_score"},
		{"zero candidates", func(c *Config) { c.Allocation.MaxCandidates = 0 }, "allocation.max_candidates"},
		{"zero sector cap", func(c *Config) { c.Allocation.SectorCap = 0 }, "allocation.sector_cap"},
		{"zero sector passes", func(c *Config) { c.Allocation.MaxSectorPasses = 0 }, "allocation.max_sector_passes"},
		{"top5 cap above 100", func(c *Config) { c.Allocation.Top5Cap = 101 }, "allocation.top5_cap"},
		{"negative dust floor", func(c *Config) { c.Allocation.MinStockWeight = -1 }, "allocation.min_stock_weight"},
		{"zero default cap", func(c *Config) { c.Allocation.CapDefault = 0 }, "allocation.cap_default"},
		{"inverted safety tiers", func(c *Config) { c.Allocation.CapSafety65 = 13 }, "allocation"},
		{"stock cap above sector cap", func(c *Config) { c.Allocation.CapSafety75 = 30 }, "allocation.cap_safety_75"},
		{"dust floor above default cap", func(c *Config) { c.Allocation.MinStockWeight = 6 }, "allocation.min_stock_weight"},
		{"zero top picks", func(c *Config) { c.Report.TopPickCount = 0 }, "report.top_pick_count"},
		{"negative watchlist", func(c *Config) { c.Report.WatchlistSize = -1 }, "report.watchlist_size"},
		{
			"override without cyclicality",
			func(c *Config) {
				c.Sectors = map[string]SectorOverride{
					"Paints": {ROCEThreshold: 18, DebtThreshold: 0.6, Cyclicality: "seasonal", Group: "Consumer"},
				}
			},
			"sectors.Paints.cyclicality",
		},
		{
			"override without roce",
			func(c *Config) {
				c.Sectors = map[string]SectorOverride{
					"Paints": {DebtThreshold: 0.6, Cyclicality: "low", Group: "Consumer"},
				}
			},
			"sectors.Paints.roce_threshold",
		},
		{
			"override without group",
			func(c *Config) {
				c.Sectors = map[string]SectorOverride{
					"Paints": {ROCEThreshold: 18, DebtThreshold: 0.6, Cyclicality: "low"},
				}
			},
			"sectors.Paints.group",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("expected field %s, got %s", tc.wantField, verr.Field)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{"gate.min_market_cap", "must be > 0"}
	if err.Error() != "gate.min_market_cap: must be > 0" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestWarnFlagsRiskySettings(t *testing.T) {
	cfg := Default()
	cfg.Gate.MinPromoterHolding = 20
	cfg.Allocation.TargetEquityAllocation = 98
	cfg.Allocation.SectorCap = 35

	warnings := Warn(cfg)
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}

	codes := make(map[string]bool, len(warnings))
	for _, w := range warnings {
		codes[w.Code] = true
	}
	for _, want := range []string{"LOW_PROMOTER_BAR", "THIN_CASH_BUFFER", "LOOSE_SECTOR_CAP"} {
		if !codes[want] {
			t.Errorf("missing warning %s", want)
		}
	}
}
