package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/selection"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", Env: "test"})
}

func TestWeekID(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.August, 21, 18, 0, 0, 0, time.UTC), "2026-W34"},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "2026-W01"},
		// Jan 1 2027 is a Friday, so it still belongs to the last ISO
		// week of 2026.
		{time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekID(tt.date), tt.date.Format("2006-01-02"))
	}
}

func rankedFixture() []contracts.CompositeResult {
	return []contracts.CompositeResult{
		{
			Name: "Pidilite Industries", NSECode: "PIDILITIND", SectorGroup: "Chemicals",
			Composite: 78, Rank: 1, Label: contracts.LabelStrongBuy,
			Safety:      contracts.LayerScore{Score: 80},
			Fundamental: contracts.LayerScore{Score: 75},
			Valuation:   contracts.LayerScore{Score: 62},
			Momentum:    contracts.LayerScore{Score: 66},
			External:    contracts.LayerScore{Score: 70},
			Gate:        contracts.GateResult{Passed: true},
		},
		{
			Name: "Titan Company", NSECode: "TITAN", SectorGroup: "Consumer",
			Composite: 64, Rank: 2, Label: contracts.LabelBuy,
			Safety:      contracts.LayerScore{Score: 55},
			Fundamental: contracts.LayerScore{Score: 72},
			Valuation:   contracts.LayerScore{Score: 40},
			Momentum:    contracts.LayerScore{Score: 58},
			External:    contracts.LayerScore{Score: 50},
			Gate:        contracts.GateResult{Passed: true, Warnings: []string{"low trading volume"}},
		},
		{
			Name: "Dr Lal PathLabs", NSECode: "LALPATHLAB", SectorGroup: "Healthcare",
			Composite: 55, Rank: 3, Label: contracts.LabelAccumulate,
			Safety: contracts.LayerScore{Score: 60},
			Gate:   contracts.GateResult{Passed: true},
		},
		{
			Name: "Gland Pharma", NSECode: "GLAND", SectorGroup: "Healthcare",
			Composite: 49, Rank: 4, Label: contracts.LabelHold,
			Safety: contracts.LayerScore{Score: 52},
			Gate:   contracts.GateResult{Passed: true},
		},
		{
			Name: "Bhushan Alloys", NSECode: "BHUSHALLOY", SectorGroup: "Metals",
			Composite: 0, Rank: 5, Label: contracts.LabelExcluded,
			Gate: contracts.GateResult{Passed: false, Failures: []string{
				"promoter holding below minimum",
				"market cap below ₹300 Cr",
			}},
		},
		{
			Name: "Alok Textiles", NSECode: "ALOKTEXT", SectorGroup: "Textiles",
			Composite: 0, Rank: 6, Label: contracts.LabelExcluded,
			Gate: contracts.GateResult{Passed: false, Failures: []string{
				"market cap below ₹300 Cr",
			}},
		},
	}
}

func allocFixture() contracts.PortfolioAllocation {
	return contracts.PortfolioAllocation{
		Positions: []contracts.Position{
			{Name: "Pidilite Industries", NSECode: "PIDILITIND", SectorGroup: "Chemicals",
				Weight: 12, Composite: 78, Safety: 80, Label: contracts.LabelStrongBuy},
			{Name: "Titan Company", NSECode: "TITAN", SectorGroup: "Consumer",
				Weight: 10, Composite: 64, Safety: 55, Label: contracts.LabelBuy},
		},
		CashPercent: 78,
		SectorBreakdown: map[string]float64{
			"Chemicals": 12,
			"Consumer":  10,
		},
	}
}

func TestBuildAssemblesReport(t *testing.T) {
	assembler := NewAssembler(DefaultConfig(), testLogger())
	runDate := time.Date(2026, time.August, 21, 18, 0, 0, 0, time.UTC)

	rec := assembler.Build("run-1", runDate, contracts.Neutral, rankedFixture(), allocFixture())

	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, "2026-W34", rec.WeekID)
	assert.Equal(t, runDate, rec.GeneratedAt)
	assert.Equal(t, contracts.Neutral, rec.MarketCondition)
	assert.Equal(t, selection.WeightsFor(contracts.Neutral), rec.Weights)
	assert.Equal(t, 6, rec.UniverseSize)
	assert.Equal(t, 4, rec.PassedGate)
	assert.Len(t, rec.Results, 6)

	require.Len(t, rec.TopPicks, 2)
	pidilite := rec.TopPicks[0]
	assert.Equal(t, "PIDILITIND", pidilite.NSECode)
	assert.InDelta(t, 12.0, pidilite.Weight, 1e-9)
	assert.ElementsMatch(t, []string{
		"Low risk profile",
		"Strong fundamentals",
		"Trading below fair value",
		"Healthy price trend",
		"Sector momentum in favor",
	}, pidilite.Strengths)
	assert.Empty(t, pidilite.Risks)

	titan := rec.TopPicks[1]
	assert.Equal(t, []string{"Strong fundamentals"}, titan.Strengths)
	assert.Equal(t, []string{"Rich valuation", "low trading volume"}, titan.Risks)

	require.Len(t, rec.Watchlist, 1)
	assert.Equal(t, "LALPATHLAB", rec.Watchlist[0].NSECode)

	assert.Equal(t, map[string]int{
		"promoter holding below minimum": 1,
		"market cap below ₹300 Cr":       2,
	}, rec.Exclusions)
}

func TestBuildHonorsSectionCaps(t *testing.T) {
	cfg := Config{TopPickCount: 1, WatchlistSize: 1}
	assembler := NewAssembler(cfg, testLogger())

	results := rankedFixture()
	// Promote Gland over the watchlist floor so two stocks compete for
	// the single watchlist slot.
	results[3].Composite = 52

	rec := assembler.Build("run-2", time.Now(), contracts.Bullish, results, allocFixture())

	require.Len(t, rec.TopPicks, 1)
	assert.Equal(t, "PIDILITIND", rec.TopPicks[0].NSECode)
	require.Len(t, rec.Watchlist, 1)
	assert.Equal(t, "LALPATHLAB", rec.Watchlist[0].NSECode, "rank order decides the slot")
}

func TestBuildEmptyRun(t *testing.T) {
	assembler := NewAssembler(DefaultConfig(), testLogger())
	runDate := time.Date(2026, time.August, 21, 18, 0, 0, 0, time.UTC)

	rec := assembler.Build("run-3", runDate, contracts.Bearish,
		nil, contracts.PortfolioAllocation{CashPercent: 100})

	assert.Equal(t, "2026-W34", rec.WeekID)
	assert.Equal(t, 0, rec.UniverseSize)
	assert.Equal(t, 0, rec.PassedGate)
	assert.Empty(t, rec.TopPicks)
	assert.Empty(t, rec.Watchlist)
	assert.Nil(t, rec.Exclusions)
	assert.True(t, rec.IsAllCash())
}
