// Package logger builds the zap loggers used across race-delta.
//
// Loggers are injected and named per component, e.g. lggr.Named("apibase").
// Tests should use zaptest instead of New.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at the given level ("debug", "info",
// "warn", "error").
func New(level string) (*zap.SugaredLogger, error) {
	return NewWith(func(cfg *zap.Config) {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			lvl = zapcore.InfoLevel
		}
		cfg.Level.SetLevel(lvl)
	})
}

// NewWith returns a logger from a modified production config.
func NewWith(cfgFn func(*zap.Config)) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfgFn(&cfg)
	core, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return core.Sugar(), nil
}
