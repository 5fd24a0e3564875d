// Package config reads all runtime settings from the environment.
// Nothing else in the repo calls os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Storage
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig

	// Analysis inputs
	Data DataConfig

	// Optional qualitative enrichment
	Enrichment EnrichmentConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// StorageConfig selects where recommendations are persisted.
type StorageConfig struct {
	Backend string // json, postgres
	Dir     string // directory for the json backend
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds cache settings. Redis is optional everywhere.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DataConfig holds paths to analysis inputs.
type DataConfig struct {
	SnapshotCSV  string // weekly fundamentals export consumed by scheduled runs
	StrategyFile string // YAML strategy file, optional
}

// EnrichmentConfig holds settings for the optional qualitative scorer.
type EnrichmentConfig struct {
	Provider string // off, bedrock, http
	Region   string // AWS region for the bedrock provider
	Model    string // bedrock model ID
	Endpoint string // base URL for the http provider
	APIKey   string
	Timeout  time.Duration
	// RequestsPerMinute bounds outbound scoring calls.
	RequestsPerMinute int
	CacheTTL          time.Duration
}

// SchedulerConfig holds cron schedules for background jobs.
type SchedulerConfig struct {
	// AnalysisSchedule is a 6-field cron spec (with seconds).
	AnalysisSchedule string
	Enabled          bool
}

// Load reads the environment, applying defaults suitable for local
// development, and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: envStr("PORT", "8086"),
		Env:  envStr("ENV", "development"),

		Storage:    storageFromEnv(),
		Database:   databaseFromEnv(),
		Redis:      redisFromEnv(),
		Data:       dataFromEnv(),
		Enrichment: enrichmentFromEnv(),
		Scheduler:  schedulerFromEnv(),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),

		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func storageFromEnv() StorageConfig {
	return StorageConfig{
		Backend: envStr("STORAGE_BACKEND", "json"),
		Dir:     envStr("STORAGE_DIR", "data/recommendations"),
	}
}

func databaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		URL:             envStr("DATABASE_URL", ""),
		MaxConns:        envInt("DB_MAX_CONNS", 10),
		MinConns:        envInt("DB_MIN_CONNS", 2),
		MaxConnLifetime: envDur("DB_MAX_CONN_LIFETIME", time.Hour),
		MaxConnIdleTime: envDur("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		Host:     envStr("REDIS_HOST", "localhost"),
		Port:     envStr("REDIS_PORT", "6379"),
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		Enabled:  envBool("REDIS_ENABLED", false),
	}
}

func dataFromEnv() DataConfig {
	return DataConfig{
		SnapshotCSV:  envStr("SNAPSHOT_CSV", "data/snapshot.csv"),
		StrategyFile: envStr("STRATEGY_FILE", ""),
	}
}

func enrichmentFromEnv() EnrichmentConfig {
	return EnrichmentConfig{
		Provider:          envStr("ENRICH_PROVIDER", "off"),
		Region:            envStr("ENRICH_AWS_REGION", "ap-south-1"),
		Model:             envStr("ENRICH_MODEL", "anthropic.claude-3-haiku-20240307-v1:0"),
		Endpoint:          envStr("ENRICH_ENDPOINT", ""),
		APIKey:            envStr("ENRICH_API_KEY", ""),
		Timeout:           envDur("ENRICH_TIMEOUT", 20*time.Second),
		RequestsPerMinute: envInt("ENRICH_RPM", 30),
		CacheTTL:          envDur("ENRICH_CACHE_TTL", 7*24*time.Hour),
	}
}

func schedulerFromEnv() SchedulerConfig {
	return SchedulerConfig{
		AnalysisSchedule: envStr("ANALYSIS_SCHEDULE", "0 0 18 * * FRI"),
		Enabled:          envBool("SCHEDULER_ENABLED", false),
	}
}

func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}

	switch c.Storage.Backend {
	case "json":
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the json backend")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: json, postgres")
	}

	switch c.Enrichment.Provider {
	case "off":
	case "bedrock":
		if c.Enrichment.RequestsPerMinute <= 0 {
			return fmt.Errorf("ENRICH_RPM must be positive")
		}
	case "http":
		if c.Enrichment.Endpoint == "" {
			return fmt.Errorf("ENRICH_ENDPOINT is required for the http provider")
		}
		if c.Enrichment.RequestsPerMinute <= 0 {
			return fmt.Errorf("ENRICH_RPM must be positive")
		}
	default:
		return fmt.Errorf("ENRICH_PROVIDER must be one of: off, bedrock, http")
	}

	if c.Scheduler.Enabled && c.Scheduler.AnalysisSchedule == "" {
		return fmt.Errorf("ANALYSIS_SCHEDULE is required when the scheduler is enabled")
	}

	return nil
}

// loadEnvFile walks up from the working directory looking for a .env
// file, so commands work from the repo root and from subdirectories.
func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDur(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
