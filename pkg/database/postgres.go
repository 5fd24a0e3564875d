// Package database owns the PostgreSQL connection pool. The pool is
// created once at startup and handed to the store layer.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niveshquant/quantfolio/pkg/config"
)

// connectTimeout bounds both pool creation and the initial ping.
const connectTimeout = 5 * time.Second

// DB wraps a pgxpool.Pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to PostgreSQL using the configured pool settings and
// verifies the connection before returning.
func New(cfg *config.Config) (*DB, error) {
	pc, err := poolConfig(cfg.Database)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func poolConfig(dc config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(dc.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pc.MaxConns = int32(dc.MaxConns)
	pc.MinConns = int32(dc.MinConns)
	pc.MaxConnLifetime = dc.MaxConnLifetime
	pc.MaxConnIdleTime = dc.MaxConnIdleTime
	return pc, nil
}

// Close releases the pool. Safe to call more than once.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
