package enrich

import (
	"math"
	"sort"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// Direction thresholds for a sector group. Returns are percent over
// three months, scores on the 0-100 composite scale.
const (
	trendHotReturn  = 5.0
	trendColdReturn = -5.0
	trendFirmScore  = 50.0
	trendWeakScore  = 40.0
)

// sectorTrends aggregates composites and raw three-month returns per
// sector group. Excluded stocks do not count; groups come out
// alphabetically.
func (e *Enricher) sectorTrends(universe []contracts.StockRecord, results []contracts.CompositeResult) []contracts.SectorTrend {
	returns := make(map[string]float64, len(universe))
	for i := range universe {
		returns[universe[i].Key()] = universe[i].Return3M
	}

	type sectorAgg struct {
		composite float64
		return3M  float64
		count     int
	}
	groups := make(map[string]*sectorAgg)
	for i := range results {
		r := &results[i]
		if r.IsExcluded() {
			continue
		}
		agg := groups[r.SectorGroup]
		if agg == nil {
			agg = &sectorAgg{}
			groups[r.SectorGroup] = agg
		}
		agg.composite += r.Composite
		agg.return3M += returns[r.Key()]
		agg.count++
	}
	if len(groups) == 0 {
		return nil
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	trends := make([]contracts.SectorTrend, 0, len(names))
	for _, name := range names {
		agg := groups[name]
		avgComposite := agg.composite / float64(agg.count)
		avgReturn := agg.return3M / float64(agg.count)
		trends = append(trends, contracts.SectorTrend{
			Group:        name,
			AvgComposite: round1(avgComposite),
			AvgReturn3M:  round1(avgReturn),
			Stocks:       agg.count,
			Direction:    trendDirection(avgComposite, avgReturn),
		})
	}
	return trends
}

// trendDirection labels a sector by whether its price action and its
// scores agree. Improving needs both; one bad leg is enough to call it
// deteriorating.
func trendDirection(avgComposite, avgReturn3M float64) string {
	switch {
	case avgReturn3M >= trendHotReturn && avgComposite >= trendFirmScore:
		return "improving"
	case avgReturn3M <= trendColdReturn || avgComposite < trendWeakScore:
		return "deteriorating"
	default:
		return "flat"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
