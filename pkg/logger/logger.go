// Package logger wraps zerolog behind the small surface the pipeline
// needs: leveled messages plus child loggers carrying structured fields.
package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/niveshquant/quantfolio/pkg/config"
)

// Logger emits structured JSON log lines. Child loggers returned by the
// With* methods share the parent's writer and level.
type Logger struct {
	zl zerolog.Logger
}

// New builds a logger from config. LOG_FORMAT=console switches to
// human-readable output for local runs; everything else is JSON.
func New(cfg *config.Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return newWriterLogger(cfg, w)
}

func newWriterLogger(cfg *config.Config, w io.Writer) *Logger {
	zl := zerolog.New(w).
		Level(levelFor(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", "quantfolio").
		Str("env", cfg.Env).
		Logger()
	return &Logger{zl: zl}
}

var levels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

func levelFor(s string) zerolog.Level {
	if lv, ok := levels[strings.ToLower(s)]; ok {
		return lv
	}
	return zerolog.InfoLevel
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }

func (l *Logger) Info(msg string) { l.zl.Info().Msg(msg) }

func (l *Logger) Warn(msg string) { l.zl.Warn().Msg(msg) }

func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string) { l.zl.Fatal().Msg(msg) }

// WithField returns a child logger carrying one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger carrying the given fields. Keys are
// attached in sorted order so repeated runs produce identical lines.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx := l.zl.With()
	for _, k := range keys {
		ctx = ctx.Interface(k, fields[k])
	}
	return &Logger{zl: ctx.Logger()}
}

// WithRun tags the logger with the identifiers of one pipeline run.
func (l *Logger) WithRun(runID, weekID string) *Logger {
	return &Logger{zl: l.zl.With().Str("run_id", runID).Str("week_id", weekID).Logger()}
}

// WithError returns a child logger carrying the error as a field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}
