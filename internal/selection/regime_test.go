package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

func universeWithReturns(returns ...float64) []contracts.StockRecord {
	stocks := make([]contracts.StockRecord, len(returns))
	for i, r := range returns {
		stocks[i] = contracts.StockRecord{Name: "Stock", Return3M: r}
	}
	return stocks
}

func TestDetectMarketCondition(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    contracts.MarketCondition
	}{
		{
			// Ten stocks averaging 15% with eight in the green.
			name:    "broad rally is bullish",
			returns: []float64{25, 30, 18, 22, 12, 16, 28, 24, -10, -15},
			want:    contracts.Bullish,
		},
		{
			name:    "broad selloff is bearish",
			returns: []float64{-25, -30, -18, -22, -12, 5, -28, -24, -10, -15},
			want:    contracts.Bearish,
		},
		{
			name:    "mixed tape is neutral",
			returns: []float64{8, -5, 12, -9, 3, 1, -2, 6, -4, 2},
			want:    contracts.Neutral,
		},
		{
			// Two runaway winners lift the average but breadth is poor.
			name:    "narrow rally stays neutral",
			returns: []float64{120, 90, -5, -3, -8, -2, -6, -4, -1, -7},
			want:    contracts.Neutral,
		},
		{
			// Everything mildly green: breadth is there, magnitude is not.
			name:    "shallow breadth stays neutral",
			returns: []float64{4, 6, 3, 5, 2, 7, 4, 3, 6, 5},
			want:    contracts.Neutral,
		},
		{
			name:    "empty universe is neutral",
			returns: nil,
			want:    contracts.Neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breadth := DetectMarketCondition(universeWithReturns(tt.returns...))
			assert.Equal(t, tt.want, breadth.Condition)
		})
	}
}

func TestDetectMarketConditionReportsBreadth(t *testing.T) {
	breadth := DetectMarketCondition(universeWithReturns(20, 10, -6))

	assert.InDelta(t, 8.0, breadth.AvgReturn3M, 1e-9)
	assert.InDelta(t, 2.0/3.0, breadth.PositiveRatio, 1e-9)
	assert.Equal(t, 3, breadth.Size)
}

func TestWeightsSumToOne(t *testing.T) {
	for _, condition := range []contracts.MarketCondition{
		contracts.Bullish, contracts.Bearish, contracts.Neutral,
	} {
		w := WeightsFor(condition)
		assert.InDelta(t, 1.0, w.Sum(), 1e-9, "condition %s", condition)
	}
}

func TestWeightsMatchRegimeCharacter(t *testing.T) {
	bearish := WeightsFor(contracts.Bearish)
	bullish := WeightsFor(contracts.Bullish)
	neutral := WeightsFor(contracts.Neutral)

	// Bear markets live on safety and shun momentum.
	assert.Equal(t, 0.40, bearish.Safety)
	assert.Equal(t, 0.05, bearish.Momentum)

	// Bull markets chase earnings and momentum.
	assert.Greater(t, bullish.Momentum, neutral.Momentum)
	assert.Less(t, bullish.Safety, neutral.Safety)
}

func TestWeightsForUnknownConditionFallsBackToNeutral(t *testing.T) {
	assert.Equal(t, WeightsFor(contracts.Neutral), WeightsFor(contracts.MarketCondition("SIDEWAYS")))
}
