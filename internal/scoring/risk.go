package scoring

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Risk layer weights.
const (
	weightFundamentalRisk = 0.35
	weightVolatilityRisk  = 0.25
	weightLiquidityRisk   = 0.15
	weightGovernanceRisk  = 0.15
	weightValuationRisk   = 0.10
)

// tailRiskFloor is the component score under which the tail penalty
// kicks in; tailRiskFactor scales the shortfall.
const (
	tailRiskFloor  = 30.0
	tailRiskFactor = 0.5
)

// RiskScorer produces the safety layer. Higher means safer. A single
// severe component drags the whole layer down through the tail penalty,
// so averaging cannot mask one bad risk.
type RiskScorer struct {
	sectors *sectors.Table
}

func NewRiskScorer(table *sectors.Table) *RiskScorer {
	return &RiskScorer{sectors: table}
}

func (s *RiskScorer) Score(stock contracts.StockRecord) contracts.LayerScore {
	profile := s.sectors.Lookup(stock.Industry)

	parts := []part{
		{weightFundamentalRisk, s.fundamentalRisk(stock, profile)},
		{weightVolatilityRisk, s.volatilityRisk(stock)},
		{weightLiquidityRisk, s.liquidityRisk(stock)},
		{weightGovernanceRisk, s.governanceRisk(stock)},
		{weightValuationRisk, s.valuationRisk(stock)},
	}

	layer := composeLayer(parts...)
	return applyTailPenalty(layer, worstOf(parts...))
}

// applyTailPenalty subtracts (floor - worst) * factor when the weakest
// component sits below the floor.
func applyTailPenalty(layer contracts.LayerScore, worst float64) contracts.LayerScore {
	if worst >= tailRiskFloor {
		return layer
	}
	penalty := (tailRiskFloor - worst) * tailRiskFactor
	layer.Score = clamp(layer.Score - penalty)
	layer.Details = append(layer.Details, contracts.SignalNote{
		Signal: "tailRisk",
		Text:   fmt.Sprintf("%.1f weakest risk component at %.0f", -penalty, worst),
	})
	return layer
}

func (s *RiskScorer) fundamentalRisk(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("fundamentalRisk", 50)

	threshold := profile.ROCEThreshold
	switch {
	case stock.ROCE >= 1.5*threshold:
		c.add(20, fmt.Sprintf("ROCE %.1f%% far above the %.0f%% sector bar", stock.ROCE, threshold))
	case stock.ROCE >= threshold:
		c.add(12, fmt.Sprintf("ROCE %.1f%% clears the %.0f%% sector bar", stock.ROCE, threshold))
	case stock.ROCE >= 0.8*threshold:
		c.add(4, "ROCE just under the sector bar")
	case stock.ROCE < 0.5*threshold:
		c.add(-15, fmt.Sprintf("ROCE %.1f%% well below the sector bar", stock.ROCE))
	}

	if !s.sectors.IsFinancial(stock.Industry) && stock.InterestCoverage > 0 {
		switch {
		case stock.InterestCoverage >= 8:
			c.add(10, "interest covered many times over")
		case stock.InterestCoverage >= 4:
			c.add(5, "comfortable interest coverage")
		case stock.InterestCoverage < 2:
			c.add(-15, fmt.Sprintf("interest coverage %.1fx leaves no cushion", stock.InterestCoverage))
		}
	}

	if stock.Sales > 0 {
		switch {
		case stock.OPM >= 20:
			c.add(8, fmt.Sprintf("operating margin %.1f%%", stock.OPM))
		case stock.OPM >= 12:
			c.add(4, "healthy operating margin")
		case stock.OPM <= 4:
			c.add(-8, "thin operating margin")
		}
	}

	if stock.NetProfit < 0 {
		c.add(-20, "loss-making over the trailing year")
	}

	return c
}

func (s *RiskScorer) volatilityRisk(stock contracts.StockRecord) *card {
	c := newCard("volatilityRisk", 50)

	if stock.High52W > 0 {
		drawdown := stock.DrawdownFrom52WHigh()
		switch {
		case drawdown <= 15:
			c.add(18, "trading near the 52-week high")
		case drawdown <= 30:
			c.add(8, fmt.Sprintf("moderate %.0f%% drawdown from the high", drawdown))
		case drawdown > 45:
			c.add(-18, fmt.Sprintf("deep %.0f%% drawdown from the high", drawdown))
		default:
			c.add(-6, "extended drawdown from the high")
		}
	}

	if stock.Low52W > 0 && stock.High52W > stock.Low52W {
		rangePct := (stock.High52W - stock.Low52W) / stock.Low52W * 100
		if rangePct > 150 {
			c.add(-12, fmt.Sprintf("52-week range spans %.0f%%", rangePct))
		} else if rangePct < 40 {
			c.add(10, "narrow 52-week trading range")
		}
	}

	if stock.Return1Y < -40 {
		c.add(-10, fmt.Sprintf("down %.0f%% over one year", -stock.Return1Y))
	}

	return c
}

func (s *RiskScorer) liquidityRisk(stock contracts.StockRecord) *card {
	c := newCard("liquidityRisk", 50)

	switch {
	case stock.MarketCap >= 20000:
		c.add(20, "large cap with deep liquidity")
	case stock.MarketCap >= 5000:
		c.add(12, "mid cap trading depth")
	case stock.MarketCap >= 1000:
		c.add(5, "adequate market cap")
	case stock.MarketCap < 500:
		c.add(-10, fmt.Sprintf("small ₹%.0f Cr market cap", stock.MarketCap))
	}

	if stock.MonthlyVolume >= 1000000 {
		c.add(10, "heavy monthly turnover")
	} else if stock.MonthlyVolume < 20000 {
		c.add(-12, "thin monthly turnover")
	}

	return c
}

func (s *RiskScorer) governanceRisk(stock contracts.StockRecord) *card {
	c := newCard("governanceRisk", 50)

	switch {
	case stock.PromoterHolding >= 60:
		c.add(15, fmt.Sprintf("promoters hold %.1f%%", stock.PromoterHolding))
	case stock.PromoterHolding >= 45:
		c.add(10, "solid promoter commitment")
	case stock.PromoterHolding > 0 && stock.PromoterHolding < 30:
		c.add(-10, "low promoter skin in the game")
	}

	switch {
	case stock.PledgedPercent == 0:
		c.add(10, "no promoter pledging")
	case stock.PledgedPercent > 25:
		c.add(-25, fmt.Sprintf("%.1f%% of promoter stake pledged", stock.PledgedPercent))
	case stock.PledgedPercent > 10:
		c.add(-12, "meaningful promoter pledging")
	default:
		c.add(-5, "minor promoter pledging")
	}

	if stock.PromoterHoldingChange >= 1 {
		c.add(8, "promoters added over the quarter")
	} else if stock.PromoterHoldingChange <= -2 {
		c.add(-12, "promoters sold over the quarter")
	}

	return c
}

func (s *RiskScorer) valuationRisk(stock contracts.StockRecord) *card {
	c := newCard("valuationRisk", 50)

	if stock.PE > 0 {
		switch {
		case stock.PE <= 15:
			c.add(15, fmt.Sprintf("modest %.1fx earnings multiple", stock.PE))
		case stock.PE <= 25:
			c.add(8, "reasonable earnings multiple")
		case stock.PE > 60:
			c.add(-18, fmt.Sprintf("rich %.1fx earnings multiple", stock.PE))
		case stock.PE > 40:
			c.add(-8, "elevated earnings multiple")
		}
	}

	if stock.PriceToBook > 0 {
		if stock.PriceToBook > 12 {
			c.add(-8, "steep price to book")
		} else if stock.PriceToBook <= 2 {
			c.add(6, "trading close to book value")
		}
	}

	if stock.PEG > 0 {
		if stock.PEG <= 1 {
			c.add(8, "growth priced cheaply")
		} else if stock.PEG > 3 {
			c.add(-8, "paying far ahead of growth")
		}
	}

	return c
}

// riskLevelFor maps a safety score to the reported risk level.
func riskLevelFor(score float64) string {
	switch {
	case score >= 75:
		return contracts.RiskLow
	case score >= 55:
		return contracts.RiskModerate
	case score >= 35:
		return contracts.RiskElevated
	default:
		return contracts.RiskHigh
	}
}
