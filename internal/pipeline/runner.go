package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/niveshquant/quantfolio/internal/allocation"
	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/enrich"
	"github.com/niveshquant/quantfolio/internal/gate"
	"github.com/niveshquant/quantfolio/internal/ingest"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/internal/scoring"
	"github.com/niveshquant/quantfolio/internal/selection"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/metrics"
)

// Runner coordinates the entire weekly pipeline
type Runner struct {
	// Stage components
	loader    *ingest.Loader
	gate      *gate.Gate
	engine    *scoring.Engine
	ranker    *selection.Ranker
	allocator *allocation.Engine
	validator *allocation.Validator
	enricher  *enrich.Enricher
	assembler *recommend.Assembler

	store     contracts.RecommendationStore
	storeName string

	// strategyHash pins the strategy file version every run records.
	strategyHash string

	metrics *metrics.Metrics
	logger  *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	SnapshotPath string
	Date         time.Time // run date, zero means now
	RunID        string    // assigned when empty
	DryRun       bool      // if true, skip the persistence stage
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string
	WeekID          string
	Date            time.Time
	Success         bool
	Error           error
	CompletedStages []string
	Coverage        *contracts.CoverageReport
	Breadth         selection.Breadth
	GateSummary     map[string]int
	Warnings        []string
	Recommendation  *contracts.Recommendation
	Duration        time.Duration
}

// NewRunner creates a new pipeline runner
func NewRunner(
	loader *ingest.Loader,
	qualityGate *gate.Gate,
	engine *scoring.Engine,
	ranker *selection.Ranker,
	allocator *allocation.Engine,
	validator *allocation.Validator,
	enricher *enrich.Enricher,
	assembler *recommend.Assembler,
	store contracts.RecommendationStore,
	storeName string,
	strategyHash string,
	m *metrics.Metrics,
	log *logger.Logger,
) *Runner {
	return &Runner{
		loader:       loader,
		gate:         qualityGate,
		engine:       engine,
		ranker:       ranker,
		allocator:    allocator,
		validator:    validator,
		enricher:     enricher,
		assembler:    assembler,
		store:        store,
		storeName:    storeName,
		strategyHash: strategyHash,
		metrics:      m,
		logger:       log,
	}
}

// Run executes the complete pipeline:
// INGEST → REGIME → GATE → SCORING → RANKING → ALLOCATION → ENRICHMENT
// → ASSEMBLY → PERSISTENCE.
// Only ingest and persistence can fail; everything between is a pure
// computation over the loaded snapshot.
func (r *Runner) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	if config.Date.IsZero() {
		config.Date = time.Now()
	}
	if config.RunID == "" {
		config.RunID = GenerateRunID()
	}

	result := &RunResult{
		RunID:           config.RunID,
		WeekID:          recommend.WeekID(config.Date),
		Date:            config.Date,
		CompletedStages: make([]string, 0),
	}
	defer func() {
		result.Duration = time.Since(startTime)
		status := "error"
		if result.Success {
			status = "success"
		}
		r.metrics.RecordRun(status, result.Duration)
	}()

	r.logger.WithRun(config.RunID, result.WeekID).WithFields(map[string]interface{}{
		"date":     config.Date.Format("2006-01-02"),
		"snapshot": config.SnapshotPath,
		"dry_run":  config.DryRun,
	}).Info("Starting pipeline run")

	// INGEST: load the weekly snapshot
	universe, coverage, err := r.runIngest(config.SnapshotPath)
	if err != nil {
		result.Error = fmt.Errorf("ingest failed: %w", err)
		return result, result.Error
	}
	result.Coverage = coverage
	r.finishStage(result, contracts.StageIngest, startTime)

	// REGIME: read the market condition off the full pre-gate universe
	stageStart := time.Now()
	result.Breadth = r.runRegime(universe)
	r.finishStage(result, contracts.StageRegime, stageStart)

	// GATE: disqualify stocks that fail the hard quality rules
	stageStart = time.Now()
	gates, summary := r.runGate(universe)
	result.GateSummary = summary
	r.finishStage(result, contracts.StageGate, stageStart)

	// SCORING: run the five layers on every gate-passed stock
	stageStart = time.Now()
	layers := r.runScoring(universe, gates)
	r.finishStage(result, contracts.StageScoring, stageStart)

	// RANKING: blend layers into composites under the regime weights
	stageStart = time.Now()
	results := r.runRanking(universe, gates, layers, result.Breadth.Condition)
	r.finishStage(result, contracts.StageRanking, stageStart)

	// ALLOCATION: size the model portfolio
	stageStart = time.Now()
	alloc := r.runAllocation(results)
	result.Warnings = alloc.Warnings
	r.finishStage(result, contracts.StageAllocation, stageStart)

	// ENRICHMENT: optional qualitative and derived extras
	var enrichment *contracts.Enrichment
	if r.enricher != nil {
		stageStart = time.Now()
		enrichment = r.enricher.Enrich(ctx, universe, results)
		r.finishStage(result, contracts.StageEnrichment, stageStart)
	} else {
		r.logger.Debug("Skipping enrichment (no scorer configured)")
	}

	// ASSEMBLY: package everything into the weekly recommendation
	stageStart = time.Now()
	rec := r.assembler.Build(config.RunID, config.Date, result.Breadth.Condition, results, alloc)
	rec.Enrichment = enrichment
	rec.StrategyHash = r.strategyHash
	result.Recommendation = &rec
	r.finishStage(result, contracts.StageAssembly, stageStart)

	// PERSISTENCE: save keyed by week (skip if dry run)
	if !config.DryRun {
		stageStart = time.Now()
		if err := r.store.Save(ctx, result.Recommendation); err != nil {
			r.metrics.RecordStoreOp(r.storeName, "save", "error")
			result.Error = fmt.Errorf("persistence failed: %w", err)
			return result, result.Error
		}
		r.metrics.RecordStoreOp(r.storeName, "save", "success")
		r.finishStage(result, contracts.StagePersistence, stageStart)
	} else {
		r.logger.Info("Skipping persistence (dry run mode)")
	}

	result.Success = true

	r.logger.WithRun(config.RunID, result.WeekID).WithFields(map[string]interface{}{
		"duration":  time.Since(startTime).Seconds(),
		"stages":    len(result.CompletedStages),
		"positions": result.Recommendation.Allocation.Count(),
		"cash":      result.Recommendation.Allocation.CashPercent,
	}).Info("Pipeline run completed")

	return result, nil
}

// finishStage records one completed stage in the result and the metrics.
func (r *Runner) finishStage(result *RunResult, stage contracts.Stage, start time.Time) {
	r.metrics.RecordStage(string(stage), time.Since(start))
	result.CompletedStages = append(result.CompletedStages, string(stage))
}

// runIngest loads and parses the snapshot CSV.
func (r *Runner) runIngest(path string) ([]contracts.StockRecord, *contracts.CoverageReport, error) {
	r.logger.Info("Running stage: snapshot load")

	if path == "" {
		return nil, nil, fmt.Errorf("no snapshot path configured")
	}

	universe, coverage, err := r.loader.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	r.metrics.RecordUniverse(len(universe))

	r.logger.WithFields(map[string]interface{}{
		"stocks": len(universe),
		"path":   path,
	}).Info("Ingest completed")

	return universe, coverage, nil
}

// runRegime detects the market condition over the full universe.
func (r *Runner) runRegime(universe []contracts.StockRecord) selection.Breadth {
	r.logger.Info("Running stage: market regime detection")

	breadth := selection.DetectMarketCondition(universe)

	r.logger.WithFields(map[string]interface{}{
		"condition":      breadth.Condition.String(),
		"avg_return_3m":  breadth.AvgReturn3M,
		"positive_ratio": breadth.PositiveRatio,
	}).Info("Regime detected")

	return breadth
}

// runGate applies the quality gate to every stock.
func (r *Runner) runGate(universe []contracts.StockRecord) (map[string]contracts.GateResult, map[string]int) {
	r.logger.Info("Running stage: quality gate")

	gates := r.gate.CheckAll(universe)
	summary := gate.Summarize(gates)
	for rule, count := range summary {
		r.metrics.RecordGateExclusions(rule, count)
	}

	passed := 0
	for _, g := range gates {
		if g.Passed {
			passed++
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"input":    len(universe),
		"passed":   passed,
		"excluded": len(universe) - passed,
	}).Info("Gate completed")

	return gates, summary
}

// runScoring scores every gate-passed stock across the five layers. The
// run context is built over the full universe so sector aggregates do
// not shift with gate outcomes.
func (r *Runner) runScoring(universe []contracts.StockRecord, gates map[string]contracts.GateResult) map[string]scoring.LayerSet {
	r.logger.Info("Running stage: layer scoring")

	candidates := make([]contracts.StockRecord, 0, len(universe))
	for i := range universe {
		if gates[universe[i].Key()].Passed {
			candidates = append(candidates, universe[i])
		}
	}
	layers := r.engine.ScoreAll(candidates, universe)

	r.logger.WithFields(map[string]interface{}{
		"scored": len(layers),
	}).Info("Scoring completed")

	return layers
}

// runRanking blends the layer scores into ranked composites.
func (r *Runner) runRanking(
	universe []contracts.StockRecord,
	gates map[string]contracts.GateResult,
	layers map[string]scoring.LayerSet,
	condition contracts.MarketCondition,
) []contracts.CompositeResult {
	r.logger.Info("Running stage: composite ranking")

	results := r.ranker.Rank(universe, gates, layers, condition)
	for i := range results {
		r.metrics.RecordComposite(results[i].Label, condition.String(), results[i].Composite)
	}

	fields := map[string]interface{}{"ranked": len(results)}
	if len(results) > 0 && !results[0].IsExcluded() {
		fields["top_name"] = results[0].Name
		fields["top_score"] = results[0].Composite
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return results
}

// runAllocation sizes the portfolio and runs the advisory validator.
func (r *Runner) runAllocation(results []contracts.CompositeResult) contracts.PortfolioAllocation {
	r.logger.Info("Running stage: position sizing")

	alloc := r.allocator.Build(results)
	// Append, don't assign: Build already left its own notes here, the
	// fully-in-cash one included.
	alloc.Warnings = append(alloc.Warnings, r.validator.Check(alloc)...)
	for _, warning := range alloc.Warnings {
		r.logger.WithFields(map[string]interface{}{
			"warning": warning,
		}).Warn("Allocation validator finding")
	}
	r.metrics.RecordAllocation(alloc.EquityPercent(), alloc.Count())

	r.logger.WithFields(map[string]interface{}{
		"positions": alloc.Count(),
		"equity":    alloc.EquityPercent(),
		"cash":      alloc.CashPercent,
	}).Info("Allocation completed")

	return alloc
}

// GenerateRunID returns a unique identifier for one pipeline run.
func GenerateRunID() string {
	return uuid.New().String()
}
