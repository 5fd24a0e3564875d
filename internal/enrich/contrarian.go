package enrich

import "github.com/niveshquant/quantfolio/internal/contracts"

// Contrarian screen: the valuation and fundamental layers must both
// like the stock while the momentum layer does not.
const (
	contrarianMinValuation   = 65.0
	contrarianMinFundamental = 60.0
	contrarianMaxMomentum    = 45.0
)

// contrarian flags stocks priced like laggards but scoring like
// compounders. Results arrive ranked, so the picks come out in
// composite order.
func (e *Enricher) contrarian(results []contracts.CompositeResult) []contracts.ContrarianPick {
	if e.config.MaxContrarian <= 0 {
		return nil
	}

	var picks []contracts.ContrarianPick
	for i := range results {
		r := &results[i]
		if r.IsExcluded() {
			continue
		}
		if r.Valuation.Score < contrarianMinValuation ||
			r.Fundamental.Score < contrarianMinFundamental ||
			r.Momentum.Score >= contrarianMaxMomentum {
			continue
		}

		picks = append(picks, contracts.ContrarianPick{
			Name:        r.Name,
			Valuation:   r.Valuation.Score,
			Fundamental: r.Fundamental.Score,
			Momentum:    r.Momentum.Score,
			Reason:      "cheap on strong fundamentals while the price trend lags",
		})
		if len(picks) >= e.config.MaxContrarian {
			break
		}
	}
	return picks
}
