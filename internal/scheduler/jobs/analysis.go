// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/niveshquant/quantfolio/internal/pipeline"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// AnalysisJob runs the full weekly pipeline against the configured
// snapshot file.
type AnalysisJob struct {
	runner   *pipeline.Runner
	snapshot string
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates the weekly analysis job.
func NewAnalysisJob(runner *pipeline.Runner, snapshot, schedule string, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		runner:   runner,
		snapshot: snapshot,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *AnalysisJob) Name() string {
	return "weekly_analysis"
}

// Schedule returns the configured cron expression.
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline run and persists the recommendation.
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled analysis run")

	result, err := j.runner.Run(ctx, pipeline.RunConfig{
		SnapshotPath: j.snapshot,
	})
	if err != nil {
		return fmt.Errorf("analysis run failed: %w", err)
	}

	j.logger.WithRun(result.RunID, result.WeekID).WithFields(map[string]interface{}{
		"positions": result.Recommendation.Allocation.Count(),
		"cash_pct":  result.Recommendation.Allocation.CashPercent,
	}).Info("Scheduled analysis completed")

	return nil
}
