package recommend

import (
	"math"
	"sort"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// minWeightDelta is the smallest week-over-week weight move worth
// reporting.
const minWeightDelta = 0.5

// Compare diffs two weekly recommendations: positions added, positions
// dropped, and weight moves beyond the reporting threshold sorted by
// absolute move descending. previous may be nil (first run), in which
// case every current position counts as added.
func Compare(current, previous *contracts.Recommendation) contracts.RecommendationDiff {
	diff := contracts.RecommendationDiff{
		CurrentWeek:      current.WeekID,
		CurrentCondition: current.MarketCondition,
	}

	if previous == nil {
		for _, p := range current.Allocation.Positions {
			diff.Added = append(diff.Added, displayName(p))
		}
		return diff
	}

	diff.PreviousWeek = previous.WeekID
	diff.PreviousCondition = previous.MarketCondition
	diff.RegimeChanged = previous.MarketCondition != current.MarketCondition

	held := positionIndex(previous.Allocation.Positions)
	for _, p := range current.Allocation.Positions {
		old, ok := held[p.Key()]
		if !ok {
			diff.Added = append(diff.Added, displayName(p))
			continue
		}
		delta := p.Weight - old.Weight
		if math.Abs(delta) > minWeightDelta {
			diff.Changes = append(diff.Changes, contracts.WeightChange{
				Name:     displayName(p),
				Previous: old.Weight,
				Current:  p.Weight,
				Delta:    delta,
			})
		}
	}

	kept := positionIndex(current.Allocation.Positions)
	for _, p := range previous.Allocation.Positions {
		if _, ok := kept[p.Key()]; !ok {
			diff.Removed = append(diff.Removed, displayName(p))
		}
	}

	sort.SliceStable(diff.Changes, func(i, j int) bool {
		return math.Abs(diff.Changes[i].Delta) > math.Abs(diff.Changes[j].Delta)
	})

	return diff
}

func positionIndex(positions []contracts.Position) map[string]contracts.Position {
	index := make(map[string]contracts.Position, len(positions))
	for _, p := range positions {
		index[p.Key()] = p
	}
	return index
}

func displayName(p contracts.Position) string {
	if p.Name != "" {
		return p.Name
	}
	return p.NSECode
}
