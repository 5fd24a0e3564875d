package selection

import (
	"gonum.org/v1/gonum/stat"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// Regime detection thresholds on the universe's 3-month returns.
const (
	bullishAvgReturn    = 10.0
	bullishPositiveRate = 0.7
	bearishAvgReturn    = -10.0
	bearishPositiveRate = 0.3
)

// Breadth summarizes the market internals one regime call is based on.
type Breadth struct {
	Condition     contracts.MarketCondition `json:"condition"`
	AvgReturn3M   float64                   `json:"avgReturn3M"`
	PositiveRatio float64                   `json:"positiveRatio"`
	Size          int                       `json:"size"`
}

// DetectMarketCondition reads the regime off the full pre-gate universe:
// both the average 3-month return and the fraction of stocks
// participating must agree before a regime is called, otherwise the call
// stays NEUTRAL. An empty universe is NEUTRAL.
func DetectMarketCondition(universe []contracts.StockRecord) Breadth {
	breadth := Breadth{Condition: contracts.Neutral, Size: len(universe)}
	if len(universe) == 0 {
		return breadth
	}

	returns := make([]float64, len(universe))
	positive := 0
	for i := range universe {
		returns[i] = universe[i].Return3M
		if universe[i].Return3M > 0 {
			positive++
		}
	}

	breadth.AvgReturn3M = stat.Mean(returns, nil)
	breadth.PositiveRatio = float64(positive) / float64(len(universe))

	switch {
	case breadth.AvgReturn3M > bullishAvgReturn && breadth.PositiveRatio > bullishPositiveRate:
		breadth.Condition = contracts.Bullish
	case breadth.AvgReturn3M < bearishAvgReturn && breadth.PositiveRatio < bearishPositiveRate:
		breadth.Condition = contracts.Bearish
	}

	return breadth
}
