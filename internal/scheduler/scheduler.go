// Package scheduler dispatches background jobs on cron timetables.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Config controls retry behavior for failed jobs.
type Config struct {
	MaxRetries int           `yaml:"maxRetries"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

// DefaultConfig retries twice with a minute between attempts.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		RetryDelay: time.Minute,
	}
}

// Scheduler drives registered jobs on their cron expressions.
// Expressions use six fields with a leading seconds column.
type Scheduler struct {
	cron   *cron.Cron
	config Config
	logger *logger.Logger

	mu      sync.RWMutex
	jobs    map[string]Job
	history map[string]*history
}

// New creates an empty scheduler.
func New(cfg Config, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		config:  cfg,
		logger:  log,
		jobs:    make(map[string]Job),
		history: make(map[string]*history),
	}
}

// Register schedules a job. Duplicate names are rejected.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.execute(job) }); err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.history[name] = &history{}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job registered")

	return nil
}

// Start begins dispatching jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop halts dispatch and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow triggers a registered job immediately and waits for it.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.execute(job)
	return nil
}

// Jobs lists registered job names, sorted.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats summarizes the run history per job.
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.history))
	for name, h := range s.history {
		js := JobStats{
			Schedule: s.jobs[name].Schedule(),
			Runs:     len(h.records),
		}
		for _, rec := range h.records {
			if rec.Success {
				js.Successes++
			} else {
				js.Failures++
			}
		}
		if n := len(h.records); n > 0 {
			last := h.records[n-1]
			js.LastRun = &last.Start
			js.LastError = last.Error
		}
		stats[name] = js
	}
	return stats
}

// execute runs a job with retries and records the outcome.
func (s *Scheduler) execute(job Job) {
	name := job.Name()
	start := time.Now()

	s.logger.WithField("job", name).Info("Job started")

	var lastErr error
	success := false

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		err := job.Run(context.Background())
		if err == nil {
			success = true
			break
		}

		lastErr = err
		s.logger.WithFields(map[string]interface{}{
			"job":     name,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Job attempt failed")

		if attempt < s.config.MaxRetries {
			time.Sleep(s.config.RetryDelay)
		}
	}

	record := RunRecord{
		Start:    start,
		Duration: time.Since(start),
		Success:  success,
	}
	if !success && lastErr != nil {
		record.Error = lastErr.Error()
	}

	s.mu.Lock()
	if h := s.history[name]; h != nil {
		h.add(record)
	}
	s.mu.Unlock()

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": record.Duration,
		}).Info("Job completed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"duration": record.Duration,
		"error":    lastErr.Error(),
	}).Error("Job failed after retries")
}
