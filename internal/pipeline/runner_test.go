package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/allocation"
	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/enrich"
	"github.com/niveshquant/quantfolio/internal/gate"
	"github.com/niveshquant/quantfolio/internal/ingest"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/internal/scoring"
	"github.com/niveshquant/quantfolio/internal/sectors"
	"github.com/niveshquant/quantfolio/internal/selection"
	"github.com/niveshquant/quantfolio/internal/store"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/metrics"
)

// Two stocks clear the gate; the microcap fails on size and
// profitability.
const pipelineCSV = `Name,NSE Code,Industry,CMP Rs.,Mar Cap Rs.Cr.,ROCE %,Average return on capital employed 3Years,Return over 3months,Volume,Promoter holding,Debt to equity,Qtr Sales Var %
Astral Polytechnik,ASTRAL,Plastics,1850,38000,30,28,9,2400000,58,0.2,18
Fine Organic,FINEORG,Chemicals,4200,12800,28,26,4,310000,74,0.1,12
Bhushan Microcap,BHUSHMICRO,Steel,42,150,3,2,-28,4100,41,3.4,-16
`

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", Env: "test"})
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte(pipelineCSV), 0o644))
	return path
}

func newTestRunner(t *testing.T, enricher *enrich.Enricher, st contracts.RecommendationStore) *Runner {
	t.Helper()
	log := testLogger()
	table := sectors.NewTable()
	allocConfig := allocation.DefaultConfig()

	return NewRunner(
		ingest.NewLoader(log),
		gate.New(table, gate.DefaultConfig()),
		scoring.NewEngine(table, scoring.DefaultConfig(), log),
		selection.NewRanker(table, log),
		allocation.NewEngine(allocConfig, log),
		allocation.NewValidator(allocConfig),
		enricher,
		recommend.NewAssembler(recommend.DefaultConfig(), log),
		st,
		"json",
		"a3f2b8c1",
		metrics.NewMetrics(prometheus.NewRegistry()),
		log,
	)
}

func TestRunnerEndToEnd(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	runner := newTestRunner(t, nil, st)

	runDate := time.Date(2026, 8, 21, 18, 0, 0, 0, time.UTC)
	result, err := runner.Run(context.Background(), RunConfig{
		SnapshotPath: writeSnapshot(t),
		Date:         runDate,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "2026-W34", result.WeekID)
	assert.Equal(t, []string{
		"INGEST", "REGIME", "GATE", "SCORING", "RANKING",
		"ALLOCATION", "ASSEMBLY", "PERSISTENCE",
	}, result.CompletedStages)

	require.NotNil(t, result.Recommendation)
	rec := result.Recommendation
	assert.Equal(t, result.RunID, rec.ID)
	assert.Equal(t, "2026-W34", rec.WeekID)
	assert.Equal(t, 3, rec.UniverseSize)
	assert.Equal(t, 2, rec.PassedGate)
	assert.Equal(t, "a3f2b8c1", rec.StrategyHash)
	assert.Nil(t, rec.Enrichment)

	// The microcap fails on size and profitability, nothing else does.
	assert.Equal(t, 1, result.GateSummary[gate.ReasonSmallCap])
	assert.Equal(t, 1, result.GateSummary[gate.ReasonWeakProfitability])

	// Mixed returns keep the regime neutral.
	assert.Equal(t, contracts.Neutral, result.Breadth.Condition)

	// Weights and cash always total the full book.
	assert.InDelta(t, 100.0, rec.Allocation.TotalPercent(), 0.2)

	// The run landed in the store under its week.
	saved, err := st.GetByWeek(context.Background(), result.WeekID)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, saved.ID)
}

// Both stocks are unprofitable microcaps, so nothing reaches sizing and
// the book holds cash. The engine's note must survive the validator pass
// into both the run result and the persisted allocation.
const allExcludedCSV = `Name,NSE Code,Industry,CMP Rs.,Mar Cap Rs.Cr.,ROCE %,Average return on capital employed 3Years,Return over 3months,Volume,Promoter holding,Debt to equity,Qtr Sales Var %
Bhushan Microcap,BHUSHMICRO,Steel,42,150,3,2,-28,4100,41,3.4,-16
Rohit Forgings,ROHITFORGE,Steel,18,90,2,1,-35,2800,34,4.1,-22
`

func TestRunnerAllExcludedKeepsCashNote(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	runner := newTestRunner(t, nil, st)

	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte(allExcludedCSV), 0o644))

	result, err := runner.Run(context.Background(), RunConfig{SnapshotPath: path})
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.NotNil(t, result.Recommendation)
	alloc := result.Recommendation.Allocation
	assert.Empty(t, alloc.Positions)
	assert.Equal(t, 100.0, alloc.CashPercent)
	assert.Contains(t, alloc.Warnings,
		"no stocks cleared the eligibility bar, portfolio is fully in cash")
	assert.Equal(t, alloc.Warnings, result.Warnings)

	saved, err := st.GetByWeek(context.Background(), result.WeekID)
	require.NoError(t, err)
	assert.Contains(t, saved.Allocation.Warnings,
		"no stocks cleared the eligibility bar, portfolio is fully in cash")
}

func TestRunnerDryRunSkipsPersistence(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	runner := newTestRunner(t, nil, st)

	result, err := runner.Run(context.Background(), RunConfig{
		SnapshotPath: writeSnapshot(t),
		DryRun:       true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotContains(t, result.CompletedStages, "PERSISTENCE")

	weeks, err := st.ListWeeks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestRunnerMissingSnapshot(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	runner := newTestRunner(t, nil, st)

	result, err := runner.Run(context.Background(), RunConfig{
		SnapshotPath: filepath.Join(t.TempDir(), "missing.csv"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
	assert.False(t, result.Success)
	assert.Empty(t, result.CompletedStages)
}

func TestRunnerRejectsEmptySnapshotPath(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	runner := newTestRunner(t, nil, st)

	_, err = runner.Run(context.Background(), RunConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot path")
}

// steadyScorer answers every name with the same score.
type steadyScorer struct {
	score float64
}

func (s *steadyScorer) Score(ctx context.Context, name, industry string) (float64, error) {
	return s.score, nil
}

func TestRunnerWithEnricher(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	enricher := enrich.New(enrich.DefaultConfig(), &steadyScorer{score: 65}, testLogger())
	runner := newTestRunner(t, enricher, st)

	result, err := runner.Run(context.Background(), RunConfig{
		SnapshotPath: writeSnapshot(t),
		DryRun:       true,
	})
	require.NoError(t, err)

	assert.Contains(t, result.CompletedStages, "ENRICHMENT")
	require.NotNil(t, result.Recommendation.Enrichment)

	scores := result.Recommendation.Enrichment.QualitativeScores
	require.Len(t, scores, 2, "only gate-passed stocks get scored")
	assert.Equal(t, 65.0, scores["ASTRAL"])
	assert.Equal(t, 65.0, scores["FINEORG"])
}

func TestGenerateRunID(t *testing.T) {
	first := GenerateRunID()
	second := GenerateRunID()

	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}
