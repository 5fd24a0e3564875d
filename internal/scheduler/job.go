package scheduler

import (
	"context"
	"time"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string

	// Schedule returns a six-field cron expression, seconds first,
	// e.g. "0 0 18 * * FRI".
	Schedule() string

	Run(ctx context.Context) error
}

// RunRecord is one job execution outcome.
type RunRecord struct {
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// JobStats aggregates a job's run history.
type JobStats struct {
	Schedule  string     `json:"schedule"`
	Runs      int        `json:"runs"`
	Successes int        `json:"successes"`
	Failures  int        `json:"failures"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// historyLimit caps retained run records per job.
const historyLimit = 50

type history struct {
	records []RunRecord
}

func (h *history) add(rec RunRecord) {
	h.records = append(h.records, rec)
	if len(h.records) > historyLimit {
		h.records = h.records[len(h.records)-historyLimit:]
	}
}
