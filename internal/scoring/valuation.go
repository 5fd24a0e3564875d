package scoring

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Valuation layer weights.
const (
	weightRelativeValue     = 0.35
	weightIntrinsicValueGap = 0.30
	weightValueTrapFilter   = 0.20
	weightCatalystScore     = 0.15
)

// valueTrapBase is where the trap filter starts: optimistic, pulled down
// once per trap indicator found.
const valueTrapBase = 70

// ValuationScorer rates price against worth. The trap filter exists
// because the cheapest decile is where deteriorating businesses hide.
type ValuationScorer struct {
	sectors *sectors.Table
}

func NewValuationScorer(table *sectors.Table) *ValuationScorer {
	return &ValuationScorer{sectors: table}
}

func (s *ValuationScorer) Score(stock contracts.StockRecord) contracts.LayerScore {
	profile := s.sectors.Lookup(stock.Industry)

	return composeLayer(
		part{weightRelativeValue, s.relativeValue(stock)},
		part{weightIntrinsicValueGap, s.intrinsicValueGap(stock)},
		part{weightValueTrapFilter, s.valueTrapFilter(stock, profile)},
		part{weightCatalystScore, s.catalystScore(stock)},
	)
}

func (s *ValuationScorer) relativeValue(stock contracts.StockRecord) *card {
	c := newCard("relativeValue", 50)

	if stock.PE > 0 && stock.IndustryPE > 0 {
		discount := stock.PEDiscountToIndustry()
		switch {
		case discount >= 40:
			c.add(20, fmt.Sprintf("%.0f%% discount to the industry multiple", discount))
		case discount >= 20:
			c.add(12, fmt.Sprintf("%.0f%% discount to the industry multiple", discount))
		case discount >= 0:
			c.add(4, "trading in line with the industry")
		case discount <= -50:
			c.add(-15, "steep premium to the industry multiple")
		case discount <= -20:
			c.add(-8, "premium to the industry multiple")
		}

		if stock.ROCE >= 20 && stock.PE <= 25 {
			c.add(10, "quality business at an ordinary multiple")
		}
	}

	if stock.PEG > 0 {
		switch {
		case stock.PEG <= 1:
			c.add(12, fmt.Sprintf("PEG %.2f", stock.PEG))
		case stock.PEG <= 1.5:
			c.add(6, "growth fairly priced")
		case stock.PEG > 2.5:
			c.add(-10, "paying well ahead of growth")
		}
	}

	return c
}

func (s *ValuationScorer) intrinsicValueGap(stock contracts.StockRecord) *card {
	c := newCard("intrinsicValueGap", 50)

	if stock.PE > 0 {
		earningsYield := 100 / stock.PE
		switch {
		case earningsYield >= 8:
			c.add(15, fmt.Sprintf("earnings yield %.1f%% beats bond returns", earningsYield))
		case earningsYield >= 5:
			c.add(6, "respectable earnings yield")
		case earningsYield < 2:
			c.add(-12, "earnings yield below deposit rates")
		}
	}

	if stock.PriceToBook > 0 {
		switch {
		case stock.PriceToBook <= 1:
			c.add(15, "trading below book value")
		case stock.PriceToBook <= 2.5:
			c.add(6, "modest premium to book")
		case stock.PriceToBook > 8:
			c.add(-10, "large premium to book")
		}
	}

	if stock.EVToEBITDA > 0 {
		switch {
		case stock.EVToEBITDA <= 8:
			c.add(12, fmt.Sprintf("EV/EBITDA %.1f", stock.EVToEBITDA))
		case stock.EVToEBITDA <= 12:
			c.add(4, "fair enterprise multiple")
		case stock.EVToEBITDA > 20:
			c.add(-10, "expensive enterprise multiple")
		}
	}

	return c
}

// valueTrapFilter starts optimistic and deducts per trap indicator. A
// clean sheet with real growth earns the bonus back above the base.
func (s *ValuationScorer) valueTrapFilter(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("valueTrapFilter", valueTrapBase)
	traps := 0

	if stock.SalesGrowthTTM < -5 {
		c.add(-15, "trailing sales shrinking")
		traps++
	}
	if stock.ProfitGrowthTTM < -10 {
		c.add(-15, "trailing profits shrinking")
		traps++
	}
	if stock.ROCE < stock.ROCE3YrAvg-3 {
		c.add(-12, "returns on capital fading")
		traps++
	}
	if !s.sectors.IsFinancial(stock.Industry) && stock.DebtToEquity > profile.DebtThreshold {
		c.add(-12, "debt above the industry band")
		traps++
	}
	if stock.PromoterHoldingChange <= -2 {
		c.add(-10, "promoters selling")
		traps++
	}
	if stock.Return1Y < -30 {
		c.add(-8, "persistent price decline")
		traps++
	}

	if traps == 0 && stock.SalesGrowth3Yr > 10 {
		c.add(15, "no trap indicators and growth intact")
	}

	return c
}

func (s *ValuationScorer) catalystScore(stock contracts.StockRecord) *card {
	// Catalysts are the exception, not the rule.
	c := newCard("catalystScore", 40)

	if stock.DebtReduction() >= 0.2 {
		c.add(12, "balance sheet repair underway")
	}

	if stock.QuarterlyProfitGrowth >= 25 {
		c.add(12, "earnings acceleration")
	}

	if stock.CapexGrowth3Yr >= 25 && stock.OperatingCashFlow > 0 {
		c.add(10, "internally funded capacity expansion")
	}

	if stock.NetProfitPrevYear < 0 && stock.NetProfit > 0 {
		c.add(15, "swung from loss to profit")
	}

	if stock.High52W > 0 && stock.DMA200 > 0 && stock.CurrentPrice >= stock.DMA200 {
		if dd := stock.DrawdownFrom52WHigh(); dd >= 10 && dd <= 25 {
			c.add(8, "basing above the 200-day line")
		}
	}

	if stock.PEG > 0 && stock.PEG <= 1.2 && stock.ProfitGrowth3Yr >= 15 {
		c.add(10, "growth at a reasonable price")
	}

	return c
}

// verdictFor maps a valuation score to its verdict label.
func verdictFor(score float64) string {
	switch {
	case score >= 75:
		return "Significantly Undervalued"
	case score >= 60:
		return "Undervalued"
	case score >= 45:
		return "Fairly Valued"
	case score >= 35:
		return "Slightly Overvalued"
	default:
		return "Overvalued"
	}
}
