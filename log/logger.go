package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()
var sugaredLogger = logger.Sugar()

// DefaultConfig is a console config writing to stderr at the given level
func DefaultConfig(level string) (zap.Config, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg.Level = lvl
	}
	return cfg, nil
}

// Initialize builds the package logger from cfg. Until it is called the package
// logs nothing.
func Initialize(cfg zap.Config) (*zap.Logger, error) {
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Use(l)
	return l, nil
}

// Use replaces the package logger
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	sugaredLogger = l.Sugar()
}

// Logger returns the package logger
func Logger() *zap.Logger {
	return logger
}

// Sync flushes buffered entries
func Sync() error {
	return logger.Sync()
}
