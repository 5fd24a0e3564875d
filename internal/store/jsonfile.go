package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// weekIDPattern matches report file stems like 2026-W34. Anything else
// is refused so a weekId taken from a request can never name a path
// outside the report directory.
var weekIDPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// FileStore keeps one JSON document per week in a flat directory.
// Writes land in a temp file first and are renamed into place, so a
// crash mid-write never leaves a torn report behind.
type FileStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileStore creates the report directory if it does not exist.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileStore{dir: dir, logger: log}, nil
}

// Save writes the recommendation under its week ID, replacing any
// earlier run for the same week.
func (s *FileStore) Save(ctx context.Context, rec *contracts.Recommendation) error {
	if !weekIDPattern.MatchString(rec.WeekID) {
		return fmt.Errorf("invalid week id %q", rec.WeekID)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	final := s.path(rec.WeekID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize report file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"week_id": rec.WeekID,
		"path":    final,
		"bytes":   len(data),
	}).Info("Recommendation saved")

	return nil
}

// GetByWeek loads one week's report.
func (s *FileStore) GetByWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	if !weekIDPattern.MatchString(weekID) {
		return nil, fmt.Errorf("week %s: %w", weekID, contracts.ErrNotFound)
	}

	data, err := os.ReadFile(s.path(weekID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("week %s: %w", weekID, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var rec contracts.Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	return &rec, nil
}

// GetLatest returns the most recent week on disk.
func (s *FileStore) GetLatest(ctx context.Context) (*contracts.Recommendation, error) {
	weeks, err := s.ListWeeks(ctx)
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, contracts.ErrNotFound
	}
	return s.GetByWeek(ctx, weeks[0])
}

// ListWeeks returns stored week IDs, most recent first. Week numbers
// are zero padded, so lexicographic order is calendar order.
func (s *FileStore) ListWeeks(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list report directory: %w", err)
	}

	weeks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		if stem == entry.Name() || !weekIDPattern.MatchString(stem) {
			continue
		}
		weeks = append(weeks, stem)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks, nil
}

func (s *FileStore) path(weekID string) string {
	return filepath.Join(s.dir, weekID+".json")
}
