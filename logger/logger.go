package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger for development and a JSON logger everywhere else
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// Must is New for process startup, falling back to a no-op logger
func Must(env string) *zap.Logger {
	l, err := New(env)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
