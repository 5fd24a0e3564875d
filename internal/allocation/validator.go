package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// Validator re-checks the sizing invariants after the fact. It is a
// self-check, not an enforcement gate: breaches come back as warnings
// and never block a run. Tolerances sit slightly above the build caps
// so rounding drift alone never trips them.
type Validator struct {
	config Config
}

// NewValidator creates a validator sharing the engine's config.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// Check returns human-readable warnings for every invariant the
// allocation misses.
func (v *Validator) Check(alloc contracts.PortfolioAllocation) []string {
	var warnings []string

	total := alloc.TotalPercent()
	if math.Abs(total-100) > 1 {
		warnings = append(warnings,
			fmt.Sprintf("equity plus cash totals %.1f%%, expected 100%%", total))
	}

	sectorLimit := v.config.SectorCap + 1
	groups := make([]string, 0, len(alloc.SectorBreakdown))
	for group := range alloc.SectorBreakdown {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		if weight := alloc.SectorBreakdown[group]; weight > sectorLimit {
			warnings = append(warnings,
				fmt.Sprintf("sector %s carries %.1f%%, above the %.0f%% limit", group, weight, sectorLimit))
		}
	}

	stockLimit := v.config.CapSafety75 + 1
	for _, p := range alloc.Positions {
		if p.Weight > stockLimit {
			warnings = append(warnings,
				fmt.Sprintf("%s carries %.1f%%, above the %.0f%% limit", p.Name, p.Weight, stockLimit))
		}
	}

	if top5 := topWeightSum(alloc.Positions, 5); top5 > v.config.Top5Cap+2 {
		warnings = append(warnings,
			fmt.Sprintf("top 5 positions carry %.1f%%, above the %.0f%% limit", top5, v.config.Top5Cap+2))
	}

	return warnings
}

func topWeightSum(positions []contracts.Position, n int) float64 {
	weights := make([]float64, len(positions))
	for i, p := range positions {
		weights[i] = p.Weight
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(weights)))

	var sum float64
	for i := 0; i < n && i < len(weights); i++ {
		sum += weights[i]
	}
	return sum
}
