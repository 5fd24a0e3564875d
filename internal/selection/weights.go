package selection

import "github.com/niveshquant/quantfolio/internal/contracts"

// Regime weight tables. BEARISH leans hard into safety and all but
// abandons momentum; BULLISH does the reverse. Each row sums to 1.0.
var regimeWeights = map[contracts.MarketCondition]contracts.RegimeWeights{
	contracts.Neutral: {
		Safety:      0.30,
		Fundamental: 0.25,
		Valuation:   0.20,
		Momentum:    0.15,
		External:    0.10,
	},
	contracts.Bearish: {
		Safety:      0.40,
		Fundamental: 0.25,
		Valuation:   0.20,
		Momentum:    0.05,
		External:    0.10,
	},
	contracts.Bullish: {
		Safety:      0.20,
		Fundamental: 0.30,
		Valuation:   0.15,
		Momentum:    0.25,
		External:    0.10,
	},
}

// WeightsFor returns the layer weight table for a market condition.
// Unknown conditions fall back to the NEUTRAL table.
func WeightsFor(condition contracts.MarketCondition) contracts.RegimeWeights {
	if w, ok := regimeWeights[condition]; ok {
		return w
	}
	return regimeWeights[contracts.Neutral]
}
