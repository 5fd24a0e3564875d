package scoring

import (
	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Config holds the scoring assumptions that are not per-sector.
type Config struct {
	// MarketBaseline3M is the assumed broad-market 3-month return (%)
	// used as the relative-strength yardstick.
	MarketBaseline3M float64   `yaml:"market_baseline_3m"`
	Macro            MacroView `yaml:"macro"`
}

// DefaultConfig assumes a mildly rising market and a neutral macro view.
func DefaultConfig() Config {
	return Config{
		MarketBaseline3M: 5,
		Macro:            DefaultMacroView(),
	}
}

// LayerSet bundles the five layer scores for one stock together with the
// per-layer summary labels.
type LayerSet struct {
	Safety      contracts.LayerScore
	Fundamental contracts.LayerScore
	Valuation   contracts.LayerScore
	Momentum    contracts.LayerScore
	External    contracts.LayerScore

	RiskLevel string
	Grade     string
	Verdict   string
	Signal    string
}

// Engine runs all five scoring layers. Every layer is a pure function of
// (stock, run context); the engine itself holds no per-run state.
type Engine struct {
	risk        *RiskScorer
	fundamental *FundamentalScorer
	valuation   *ValuationScorer
	momentum    *MomentumScorer
	external    *ExternalScorer

	sectors *sectors.Table
	config  Config
	logger  *logger.Logger
}

// NewEngine creates the scoring engine over a shared sector table.
func NewEngine(table *sectors.Table, config Config, log *logger.Logger) *Engine {
	return &Engine{
		risk:        NewRiskScorer(table),
		fundamental: NewFundamentalScorer(table),
		valuation:   NewValuationScorer(table),
		momentum:    NewMomentumScorer(table, config.MarketBaseline3M),
		external:    NewExternalScorer(table),
		sectors:     table,
		config:      config,
		logger:      log,
	}
}

// Context builds the cross-stock aggregates for one run over the full
// universe.
func (e *Engine) Context(universe []contracts.StockRecord) *RunContext {
	return NewRunContext(universe, e.sectors, e.config.Macro)
}

// Score runs the five layers for a single stock.
func (e *Engine) Score(stock contracts.StockRecord, ctx *RunContext) LayerSet {
	set := LayerSet{
		Safety:      e.risk.Score(stock),
		Fundamental: e.fundamental.Score(stock),
		Valuation:   e.valuation.Score(stock),
		Momentum:    e.momentum.Score(stock),
		External:    e.external.Score(stock, ctx),
	}
	set.RiskLevel = riskLevelFor(set.Safety.Score)
	set.Grade = gradeFor(set.Fundamental.Score)
	set.Verdict = verdictFor(set.Valuation.Score)
	set.Signal = signalFor(set.Momentum.Score)

	e.logger.WithFields(map[string]interface{}{
		"code":        stock.Key(),
		"safety":      set.Safety.Score,
		"fundamental": set.Fundamental.Score,
		"valuation":   set.Valuation.Score,
		"momentum":    set.Momentum.Score,
		"external":    set.External.Score,
	}).Debug("Scored stock layers")

	return set
}

// ScoreAll scores every candidate against aggregates computed over the
// universe. The universe may be wider than the candidates (it usually
// includes gate-failed stocks, which still count as peers); when empty,
// the candidates themselves serve as the universe.
func (e *Engine) ScoreAll(candidates, universe []contracts.StockRecord) map[string]LayerSet {
	if len(universe) == 0 {
		universe = candidates
	}

	e.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"universe":   len(universe),
	}).Info("Running layer scoring")

	ctx := e.Context(universe)
	sets := make(map[string]LayerSet, len(candidates))
	for i := range candidates {
		sets[candidates[i].Key()] = e.Score(candidates[i], ctx)
	}

	e.logger.WithFields(map[string]interface{}{
		"scored": len(sets),
	}).Info("Layer scoring completed")

	return sets
}
