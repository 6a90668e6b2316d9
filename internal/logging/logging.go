package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds the process-wide logger. Call once from main before anything
// else logs.
func Init(environment string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logger = l
	return l, nil
}

func L() *zap.Logger {
	return logger
}

func S() *zap.SugaredLogger {
	return logger.Sugar()
}
