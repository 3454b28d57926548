// Package logger builds the shared zap logger and field helpers.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured log field keys shared across the pipeline
const (
	FieldRun     = "run_id"
	FieldTenant  = "tenant_id"
	FieldStage   = "stage"
	FieldTokens  = "tokens"
	FieldAttempt = "attempt"
)

// New builds a zap logger. JSON encoding is for service deployments;
// console for the CLI. Debug level gates the per-stage detail logs.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "msg",
			LevelKey:     "level",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			TimeKey:      "time",
			EncodeTime:   zapcore.RFC3339TimeEncoder,
			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// Nop returns a no-op logger for tests and callers that opt out
func Nop() *zap.Logger {
	return zap.NewNop()
}
