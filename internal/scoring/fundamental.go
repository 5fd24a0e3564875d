package scoring

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Fundamental layer weights.
const (
	weightEarningsPower     = 0.30
	weightGrowthQuality     = 0.25
	weightCashConversion    = 0.20
	weightCompetitiveMoat   = 0.15
	weightCapitalAllocation = 0.10
)

// FundamentalScorer rates business quality: the durability of earnings,
// the quality of growth, and how well management deploys capital.
type FundamentalScorer struct {
	sectors *sectors.Table
}

func NewFundamentalScorer(table *sectors.Table) *FundamentalScorer {
	return &FundamentalScorer{sectors: table}
}

func (s *FundamentalScorer) Score(stock contracts.StockRecord) contracts.LayerScore {
	profile := s.sectors.Lookup(stock.Industry)

	return composeLayer(
		part{weightEarningsPower, s.earningsPower(stock, profile)},
		part{weightGrowthQuality, s.growthQuality(stock)},
		part{weightCashConversion, s.cashConversion(stock)},
		part{weightCompetitiveMoat, s.competitiveMoat(stock, profile)},
		part{weightCapitalAllocation, s.capitalAllocation(stock, profile)},
	)
}

func (s *FundamentalScorer) earningsPower(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("earningsPower", 50)

	threshold := profile.ROCEThreshold
	switch {
	case stock.ROCE >= 1.5*threshold:
		c.add(20, fmt.Sprintf("ROCE %.1f%% far above the %.0f%% sector bar", stock.ROCE, threshold))
	case stock.ROCE >= threshold:
		c.add(12, fmt.Sprintf("ROCE %.1f%% clears the %.0f%% sector bar", stock.ROCE, threshold))
	case stock.ROCE >= 0.8*threshold:
		c.add(4, "ROCE just under the sector bar")
	case stock.ROCE < 0.5*threshold:
		c.add(-15, "returns on capital far below sector standard")
	}

	if stock.ROCE3YrAvg >= threshold {
		c.add(8, "three-year average holds the sector bar")
	}

	if stock.ROCE >= stock.ROCE3YrAvg+2 {
		c.add(8, "returns on capital improving")
	} else if stock.ROCE <= stock.ROCE3YrAvg-3 {
		c.add(-8, "returns on capital fading")
	}

	if stock.Sales > 0 {
		switch {
		case stock.OPM >= 18:
			c.add(8, fmt.Sprintf("operating margin %.1f%%", stock.OPM))
		case stock.OPM >= 10:
			c.add(3, "decent operating margin")
		case stock.OPM <= 4:
			c.add(-8, "thin operating margin")
		}
	}

	return c
}

func (s *FundamentalScorer) growthQuality(stock contracts.StockRecord) *card {
	c := newCard("growthQuality", 50)

	switch {
	case stock.SalesGrowth3Yr >= 20:
		c.add(15, fmt.Sprintf("sales compounding at %.1f%%", stock.SalesGrowth3Yr))
	case stock.SalesGrowth3Yr >= 12:
		c.add(8, "double-digit sales growth")
	case stock.SalesGrowth3Yr >= 6:
		c.add(3, "modest sales growth")
	case stock.SalesGrowth3Yr < 0:
		c.add(-12, "sales shrinking over three years")
	}

	switch {
	case stock.ProfitGrowth3Yr >= 20:
		c.add(12, fmt.Sprintf("profits compounding at %.1f%%", stock.ProfitGrowth3Yr))
	case stock.ProfitGrowth3Yr >= 12:
		c.add(6, "double-digit profit growth")
	case stock.ProfitGrowth3Yr < 0:
		c.add(-10, "profits shrinking over three years")
	}

	// Operating leverage: profits outgrowing sales.
	if stock.SalesGrowth3Yr > 0 && stock.ProfitGrowth3Yr >= stock.SalesGrowth3Yr+3 {
		c.add(8, "profit growth running ahead of sales")
	}

	if stock.SalesGrowthTTM > stock.SalesGrowth3Yr+3 {
		c.add(6, "sales growth accelerating")
	}

	if stock.QuarterlyProfitGrowth >= 15 {
		c.add(6, fmt.Sprintf("quarterly profit up %.1f%%", stock.QuarterlyProfitGrowth))
	} else if stock.QuarterlyProfitGrowth < -15 {
		c.add(-10, "sharp quarterly profit drop")
	}

	return c
}

func (s *FundamentalScorer) cashConversion(stock contracts.StockRecord) *card {
	c := newCard("cashConversion", 50)

	if stock.OperatingCashFlow > 0 {
		c.add(10, "operations generate cash")
	} else if stock.OperatingCashFlow < 0 {
		c.add(-20, "operations burn cash")
	}

	if stock.FreeCashFlow > 0 {
		c.add(10, "free cash flow positive")
	}

	if stock.NetProfit > 0 && stock.OperatingCashFlow >= 0.8*stock.NetProfit {
		c.add(15, "reported profits backed by cash")
	}

	return c
}

func (s *FundamentalScorer) competitiveMoat(stock contracts.StockRecord, profile sectors.Profile) *card {
	// Moats are rare; the base sits below neutral and only sustained
	// excellence earns it back.
	c := newCard("competitiveMoat", 40)

	threshold := profile.ROCEThreshold
	switch {
	case stock.ROCE >= 25 && stock.ROCE3YrAvg >= 22:
		c.add(30, "sustained elite returns on capital")
	case stock.ROCE >= 20 && stock.ROCE3YrAvg >= 17:
		c.add(20, "consistently strong returns on capital")
	case stock.ROCE >= 1.25*threshold && stock.ROCE3YrAvg >= 1.1*threshold:
		c.add(15, "returns persistently above the sector bar")
	}

	if stock.OPM >= 22 {
		c.add(10, "margins suggest pricing power")
	}

	if stock.ROE >= 18 {
		c.add(8, fmt.Sprintf("ROE %.1f%%", stock.ROE))
	}

	return c
}

func (s *FundamentalScorer) capitalAllocation(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("capitalAllocation", 50)

	if !s.sectors.IsFinancial(stock.Industry) {
		if stock.DebtReduction() > 0 && stock.DebtToEquityPrevYear > 0.3 {
			c.add(12, "deleveraging year over year")
		}
		if stock.DebtToEquity <= 0.3 {
			c.add(10, "nearly debt-free balance sheet")
		} else if stock.DebtToEquity > profile.DebtThreshold {
			c.add(-15, fmt.Sprintf("debt to equity %.2f above the %.1f industry band",
				stock.DebtToEquity, profile.DebtThreshold))
		}
	}

	if stock.DividendYield >= 1.5 {
		c.add(6, "meaningful dividend stream")
	}

	if stock.CapexGrowth3Yr > 25 && stock.SalesGrowth3Yr < 10 {
		c.add(-10, "heavy capex without matching growth")
	}

	return c
}

// gradeFor maps a fundamental score to its letter grade.
func gradeFor(score float64) string {
	switch {
	case score >= 85:
		return "A+"
	case score >= 75:
		return "A"
	case score >= 65:
		return "B+"
	case score >= 55:
		return "B"
	case score >= 45:
		return "C+"
	case score >= 35:
		return "C"
	default:
		return "D"
	}
}
