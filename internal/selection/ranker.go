package selection

import (
	"sort"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/scoring"
	"github.com/niveshquant/quantfolio/internal/sectors"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Ranker blends layer scores into regime-weighted composites and ranks
// the universe.
type Ranker struct {
	sectors *sectors.Table
	logger  *logger.Logger
}

// NewRanker creates a ranker over the shared sector table.
func NewRanker(table *sectors.Table, log *logger.Logger) *Ranker {
	return &Ranker{
		sectors: table,
		logger:  log,
	}
}

// Rank produces one CompositeResult per input stock, sorted by composite
// descending. The sort is stable: equal composites keep snapshot order.
// Gate-failed stocks are labeled EXCLUDED with composite forced to zero
// and sink to the bottom.
func (r *Ranker) Rank(
	stocks []contracts.StockRecord,
	gates map[string]contracts.GateResult,
	layers map[string]scoring.LayerSet,
	condition contracts.MarketCondition,
) []contracts.CompositeResult {
	weights := WeightsFor(condition)

	results := make([]contracts.CompositeResult, 0, len(stocks))
	passed := 0
	for i := range stocks {
		stock := &stocks[i]
		result := contracts.CompositeResult{
			Name:            stock.Name,
			NSECode:         stock.NSECode,
			Industry:        stock.Industry,
			SectorGroup:     r.sectors.Lookup(stock.Industry).Group,
			MarketCondition: condition,
			Weights:         weights,
			Gate:            gates[stock.Key()],
		}

		if !result.Gate.Passed {
			result.Label = contracts.LabelExcluded
			result.RiskLevel = contracts.RiskHigh
			results = append(results, result)
			continue
		}

		set, ok := layers[stock.Key()]
		if !ok {
			r.logger.WithFields(map[string]interface{}{
				"code": stock.Key(),
			}).Warn("No layer scores for gate-passed stock")
			result.Label = contracts.LabelExcluded
			result.RiskLevel = contracts.RiskHigh
			results = append(results, result)
			continue
		}

		result.Safety = weighted(set.Safety, weights.Safety)
		result.Fundamental = weighted(set.Fundamental, weights.Fundamental)
		result.Valuation = weighted(set.Valuation, weights.Valuation)
		result.Momentum = weighted(set.Momentum, weights.Momentum)
		result.External = weighted(set.External, weights.External)

		result.Composite = result.Safety.Weighted() +
			result.Fundamental.Weighted() +
			result.Valuation.Weighted() +
			result.Momentum.Weighted() +
			result.External.Weighted()

		result.Label = labelFor(result.Composite, set.Safety.Score)
		result.RiskLevel = set.RiskLevel
		result.Grade = set.Grade
		result.Verdict = set.Verdict
		result.Signal = set.Signal

		passed++
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Composite > results[j].Composite
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	fields := map[string]interface{}{
		"total":     len(results),
		"passed":    passed,
		"condition": condition.String(),
	}
	if len(results) > 0 && passed > 0 {
		fields["top_code"] = results[0].NSECode
		fields["top_score"] = results[0].Composite
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return results
}

func weighted(layer contracts.LayerScore, weight float64) contracts.LayerScore {
	layer.Weight = weight
	return layer
}

// labelFor maps composite and safety to the recommendation label. The
// strong labels need both scores: a high composite with shaky safety
// only rates a BUY, and so on down.
func labelFor(composite, safety float64) string {
	switch {
	case composite >= 70 && safety >= 60:
		return contracts.LabelStrongBuy
	case composite >= 60 && safety >= 50:
		return contracts.LabelBuy
	case composite >= 50:
		return contracts.LabelAccumulate
	case composite >= 40:
		return contracts.LabelHold
	default:
		return contracts.LabelWatch
	}
}
