package scoring

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// External layer weights.
const (
	weightSectorMomentum   = 0.40
	weightPeerPerformance  = 0.30
	weightMacroSensitivity = 0.30
)

// minPeers is the smallest same-industry peer set (excluding the stock
// itself) the percentile comparison is willing to read anything into.
const minPeers = 2

// MacroView is the configured macro assumption the external layer scores
// sector flags against.
type MacroView struct {
	// RateCycle: easing, neutral or tightening.
	RateCycle string `yaml:"rate_cycle"`
	// Currency describes the rupee: weakening, stable or strengthening.
	Currency string `yaml:"currency"`
}

// DefaultMacroView assumes nothing: neutral rates, stable rupee.
func DefaultMacroView() MacroView {
	return MacroView{RateCycle: "neutral", Currency: "stable"}
}

// RunContext holds the cross-stock aggregates for one scoring run.
// It is built once over the full universe and read by every external
// score; it never changes after construction.
type RunContext struct {
	sectorReturn3M map[string]float64
	sectorCount    map[string]int
	industryPEs    map[string][]float64
	macro          MacroView
}

// NewRunContext computes sector-group average 3-month returns and
// per-industry PE lists over the universe.
func NewRunContext(universe []contracts.StockRecord, table *sectors.Table, macro MacroView) *RunContext {
	ctx := &RunContext{
		sectorReturn3M: make(map[string]float64),
		sectorCount:    make(map[string]int),
		industryPEs:    make(map[string][]float64),
		macro:          macro,
	}

	returnsByGroup := make(map[string][]float64)
	for i := range universe {
		stock := &universe[i]
		group := table.Lookup(stock.Industry).Group
		returnsByGroup[group] = append(returnsByGroup[group], stock.Return3M)

		if stock.PE > 0 {
			industry := industryKey(stock.Industry)
			ctx.industryPEs[industry] = append(ctx.industryPEs[industry], stock.PE)
		}
	}

	for group, returns := range returnsByGroup {
		ctx.sectorReturn3M[group] = stat.Mean(returns, nil)
		ctx.sectorCount[group] = len(returns)
	}
	for _, pes := range ctx.industryPEs {
		sort.Float64s(pes)
	}

	return ctx
}

// SectorReturn3M returns the average 3-month return of a sector group
// and how many universe stocks contributed to it.
func (ctx *RunContext) SectorReturn3M(group string) (float64, int) {
	return ctx.sectorReturn3M[group], ctx.sectorCount[group]
}

// peerCount reports how many same-industry stocks besides this one carry
// a usable PE.
func (ctx *RunContext) peerCount(industry string, stock contracts.StockRecord) int {
	peers := len(ctx.industryPEs[industryKey(industry)])
	if stock.PE > 0 {
		peers--
	}
	return peers
}

// pePercentile returns the fraction of same-industry PEs at or above the
// stock's own PE. High percentile means the stock is cheaper than most
// of its peers.
func (ctx *RunContext) pePercentile(industry string, pe float64) float64 {
	pes := ctx.industryPEs[industryKey(industry)]
	if len(pes) == 0 {
		return 0.5
	}
	higher := 0
	for _, v := range pes {
		if v >= pe {
			higher++
		}
	}
	return float64(higher) / float64(len(pes))
}

func industryKey(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}

// ExternalScorer is the one layer that reads across the universe: how
// the stock's sector is doing, where it stands against its direct peers,
// and how exposed it is to the assumed macro regime.
type ExternalScorer struct {
	sectors *sectors.Table
}

func NewExternalScorer(table *sectors.Table) *ExternalScorer {
	return &ExternalScorer{sectors: table}
}

func (s *ExternalScorer) Score(stock contracts.StockRecord, ctx *RunContext) contracts.LayerScore {
	profile := s.sectors.Lookup(stock.Industry)

	return composeLayer(
		part{weightSectorMomentum, s.sectorMomentum(stock, profile, ctx)},
		part{weightPeerPerformance, s.peerPerformance(stock, ctx)},
		part{weightMacroSensitivity, s.macroSensitivity(profile, ctx.macro)},
	)
}

func (s *ExternalScorer) sectorMomentum(stock contracts.StockRecord, profile sectors.Profile, ctx *RunContext) *card {
	c := newCard("sectorMomentum", 50)

	avg, count := ctx.SectorReturn3M(profile.Group)
	if count == 0 {
		return c
	}

	switch {
	case avg >= 10:
		c.add(20, fmt.Sprintf("%s up %.1f%% over three months", profile.Group, avg))
	case avg >= 3:
		c.add(8, "sector grinding higher")
	case avg <= -10:
		c.add(-20, fmt.Sprintf("%s down %.1f%% over three months", profile.Group, avg))
	case avg <= -3:
		c.add(-8, "sector drifting lower")
	}

	relative := stock.Return3M - avg
	if relative >= 5 {
		c.add(10, "leading its sector")
	} else if relative <= -10 {
		c.add(-10, "lagging its sector")
	}

	return c
}

func (s *ExternalScorer) peerPerformance(stock contracts.StockRecord, ctx *RunContext) *card {
	c := newCard("peerPerformance", 50)

	if stock.PE <= 0 {
		c.note("no meaningful earnings multiple for peer comparison")
		return c
	}
	if ctx.peerCount(stock.Industry, stock) < minPeers {
		c.note("too few listed peers for comparison")
		return c
	}

	percentile := ctx.pePercentile(stock.Industry, stock.PE)
	switch {
	case percentile >= 0.75:
		c.add(20, fmt.Sprintf("cheaper than %.0f%% of industry peers", percentile*100))
	case percentile >= 0.5:
		c.add(8, "cheaper than the median peer")
	case percentile <= 0.25:
		c.add(-15, "priced above most industry peers")
	}

	return c
}

func (s *ExternalScorer) macroSensitivity(profile sectors.Profile, macro MacroView) *card {
	c := newCard("macroSensitivity", 50)

	if profile.RateSensitive {
		switch macro.RateCycle {
		case "easing":
			c.add(15, "rate cuts favor the sector")
		case "tightening":
			c.add(-15, "rate hikes squeeze the sector")
		}
	}

	if profile.CurrencyBeneficiary {
		switch macro.Currency {
		case "weakening":
			c.add(12, "weak rupee lifts export earnings")
		case "strengthening":
			c.add(-12, "strong rupee erodes export earnings")
		}
	}

	switch profile.Cyclicality {
	case sectors.CyclicalityLow:
		c.add(5, "defensive earnings stream")
	case sectors.CyclicalityHigh:
		if macro.RateCycle == "tightening" {
			c.add(-8, "cyclical earnings into a tightening cycle")
		}
	}

	return c
}
