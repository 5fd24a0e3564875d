package logger_test

import (
	"errors"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// No Output comments in this file: every line carries a timestamp.

func Example() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}
	log := logger.New(cfg)

	log.Debug("suppressed at info level")
	log.Info("snapshot loaded")
	log.Warn("volume below liquidity floor")
}

func ExampleLogger_WithRun() {
	cfg := &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}
	log := logger.New(cfg)

	runLog := log.WithRun("7b0c2f1e", "2026-W34")
	runLog.Info("scoring complete")
	runLog.WithFields(map[string]interface{}{
		"stock":  "ASTRAL",
		"weight": 8.5,
		"label":  "BUY",
	}).Info("position sized")
}

func ExampleLogger_WithError() {
	cfg := &config.Config{Env: "production", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)

	err := errors.New("connection timeout")
	log.WithError(err).Error("failed to load previous recommendation")
}
