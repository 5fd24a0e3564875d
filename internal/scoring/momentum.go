package scoring

import (
	"fmt"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Momentum layer weights.
const (
	weightTrendQuality    = 0.30
	weightPullbackQuality = 0.30
	weightVolumeAnalysis  = 0.25
	weightRegimeFilter    = 0.15
)

// Pullback bands on the drawdown from the 52-week high (%). Buying a
// modest dip in an intact business beats chasing the high or catching
// the knife.
const (
	pullbackHealthyLow  = 10.0
	pullbackHealthyHigh = 25.0
	pullbackKnife       = 30.0
	knifeDMADiscount    = 0.85
)

// MomentumScorer rates price action. It rewards confirmed uptrends and
// orderly pullbacks, and punishes broken charts however cheap they look.
type MomentumScorer struct {
	sectors *sectors.Table
	// baseline3M is the assumed broad-market 3-month return (%), the
	// yardstick for relative strength.
	baseline3M float64
}

func NewMomentumScorer(table *sectors.Table, baseline3M float64) *MomentumScorer {
	return &MomentumScorer{sectors: table, baseline3M: baseline3M}
}

func (s *MomentumScorer) Score(stock contracts.StockRecord) contracts.LayerScore {
	profile := s.sectors.Lookup(stock.Industry)

	return composeLayer(
		part{weightTrendQuality, s.trendQuality(stock)},
		part{weightPullbackQuality, s.pullbackQuality(stock, profile)},
		part{weightVolumeAnalysis, s.volumeAnalysis(stock)},
		part{weightRegimeFilter, s.regimeFilter(stock, profile)},
	)
}

func (s *MomentumScorer) trendQuality(stock contracts.StockRecord) *card {
	c := newCard("trendQuality", 50)

	if stock.DMA50 > 0 && stock.DMA200 > 0 {
		switch {
		case stock.CurrentPrice > stock.DMA50 && stock.DMA50 > stock.DMA200:
			c.add(18, "price above rising moving averages")
			if stock.QuarterlyProfitGrowth > 0 {
				c.add(8, "uptrend backed by earnings")
			}
		case stock.CurrentPrice < stock.DMA50 && stock.DMA50 < stock.DMA200:
			c.add(-18, "trading below falling moving averages")
		case stock.CurrentPrice > stock.DMA200:
			c.add(8, "holding above the 200-day line")
		}

		if stock.CurrentPrice > 1.25*stock.DMA50 {
			c.add(-10, "extended far above the 50-day line")
		}
	}

	return c
}

func (s *MomentumScorer) pullbackQuality(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("pullbackQuality", 50)

	if stock.High52W <= 0 {
		return c
	}

	drawdown := stock.DrawdownFrom52WHigh()
	brokeDMA := stock.DMA200 > 0 && stock.CurrentPrice < knifeDMADiscount*stock.DMA200

	switch {
	case drawdown > pullbackKnife || brokeDMA:
		c.add(-25, "falling knife, broken support")
	case drawdown >= pullbackHealthyLow && drawdown <= pullbackHealthyHigh:
		c.add(25, fmt.Sprintf("healthy %.0f%% pullback from the high", drawdown))
		if stock.ROCE >= profile.ROCEThreshold {
			c.add(10, "fundamentals intact through the dip")
		}
	case drawdown < pullbackHealthyLow:
		c.add(10, "consolidating near the high")
	}

	return c
}

func (s *MomentumScorer) volumeAnalysis(stock contracts.StockRecord) *card {
	c := newCard("volumeAnalysis", 50)

	if stock.VolumeRatio <= 0 {
		return c
	}

	switch {
	case stock.VolumeRatio >= 1.5 && stock.Return1M > 0:
		c.add(20, "accumulation on rising volume")
	case stock.VolumeRatio >= 1.5 && stock.Return1M < 0:
		c.add(-15, "distribution on heavy volume")
	case stock.VolumeRatio <= 0.6 && stock.Return1M < 0:
		c.add(5, "selling pressure drying up")
	}

	return c
}

func (s *MomentumScorer) regimeFilter(stock contracts.StockRecord, profile sectors.Profile) *card {
	c := newCard("regimeFilter", 50)

	relative := stock.Return3M - s.baseline3M
	switch {
	case relative >= 10:
		c.add(15, fmt.Sprintf("leading the market by %.0f pts", relative))
	case relative >= 0:
		c.add(6, "keeping pace with the market")
	case relative <= -15:
		c.add(-12, "badly lagging the market")
	}

	if stock.PE > 0 && stock.IndustryPE > 0 && stock.PE < stock.IndustryPE && stock.Return3M > 0 {
		c.add(8, "rising without a valuation premium")
	}

	if profile.Cyclicality == sectors.CyclicalityHigh && stock.Return6M > 20 {
		c.add(6, "cycle appears to be turning")
	}

	return c
}

// signalFor maps a momentum score to its trading signal.
func signalFor(score float64) string {
	switch {
	case score >= 70:
		return "Strong Buy"
	case score >= 55:
		return "Buy"
	case score >= 45:
		return "Neutral"
	case score >= 35:
		return "Weak"
	default:
		return "Avoid"
	}
}
