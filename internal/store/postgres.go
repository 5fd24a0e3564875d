package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// schemaSQL lives next to the queries that depend on it. The payload
// column carries the full report; the scalar columns exist so listing
// and ordering never parse documents.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS recommendations (
		week_id          TEXT PRIMARY KEY,
		run_id           TEXT NOT NULL,
		generated_at     TIMESTAMPTZ NOT NULL,
		market_condition TEXT NOT NULL,
		strategy_hash    TEXT NOT NULL DEFAULT '',
		payload          JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recommendations_generated_at
		ON recommendations (generated_at DESC);
`

// PostgresStore persists recommendations in a single jsonb-backed table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a recommendation store over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the recommendations table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure recommendations schema: %w", err)
	}
	return nil
}

// Save upserts one week's report. A rerun of the same week replaces the
// earlier row.
func (s *PostgresStore) Save(ctx context.Context, rec *contracts.Recommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	query := `
		INSERT INTO recommendations (
			week_id, run_id, generated_at, market_condition, strategy_hash, payload
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (week_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			generated_at = EXCLUDED.generated_at,
			market_condition = EXCLUDED.market_condition,
			strategy_hash = EXCLUDED.strategy_hash,
			payload = EXCLUDED.payload
	`

	_, err = s.pool.Exec(ctx, query,
		rec.WeekID, rec.ID, rec.GeneratedAt, string(rec.MarketCondition),
		rec.StrategyHash, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}

	return nil
}

// GetByWeek loads one week's report.
func (s *PostgresStore) GetByWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	query := `SELECT payload FROM recommendations WHERE week_id = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, weekID).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("week %s: %w", weekID, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	return decode(payload)
}

// GetLatest returns the most recently generated report.
func (s *PostgresStore) GetLatest(ctx context.Context) (*contracts.Recommendation, error) {
	query := `
		SELECT payload FROM recommendations
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest recommendation: %w", err)
	}

	return decode(payload)
}

// ListWeeks returns stored week IDs, most recent first.
func (s *PostgresStore) ListWeeks(ctx context.Context) ([]string, error) {
	query := `SELECT week_id FROM recommendations ORDER BY week_id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	weeks := make([]string, 0)
	for rows.Next() {
		var weekID string
		if err := rows.Scan(&weekID); err != nil {
			return nil, fmt.Errorf("failed to scan week id: %w", err)
		}
		weeks = append(weeks, weekID)
	}

	return weeks, rows.Err()
}

func decode(payload []byte) (*contracts.Recommendation, error) {
	var rec contracts.Recommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation: %w", err)
	}
	return &rec, nil
}
