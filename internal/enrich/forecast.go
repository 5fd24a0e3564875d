package enrich

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// Band shaping. The center scales with composite excess over neutral,
// the width with how shaky the safety layer looks.
const (
	forecastCenterSlope = 0.4
	forecastBaseSpread  = 8.0
	forecastRiskSpread  = 0.15
)

// forecasts emits twelve-month return bands for the best-ranked
// survivors. These are score-implied orientation bands, not price
// targets.
func (e *Enricher) forecasts(results []contracts.CompositeResult) []contracts.Forecast {
	if e.config.MaxForecasts <= 0 {
		return nil
	}

	var out []contracts.Forecast
	for i := range results {
		r := &results[i]
		if r.IsExcluded() {
			continue
		}

		center := (r.Composite - 50) * forecastCenterSlope
		spread := forecastBaseSpread + (100-r.Safety.Score)*forecastRiskSpread
		out = append(out, contracts.Forecast{
			Name:    r.Name,
			LowPct:  round1(center - spread),
			HighPct: round1(center + spread),
			Basis:   fmt.Sprintf("composite %.0f, safety %.0f", r.Composite, r.Safety.Score),
		})
		if len(out) >= e.config.MaxForecasts {
			break
		}
	}
	return out
}
