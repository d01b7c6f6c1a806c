// Package log is the SDK logger. Calls are structured (message plus key/value
// pairs) and go nowhere until Initialize or Use installs a zap logger.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Debugw(msg string, keysAndValues ...interface{}) {
	logw(zapcore.DebugLevel, msg, keysAndValues)
}

func Infow(msg string, keysAndValues ...interface{}) {
	logw(zapcore.InfoLevel, msg, keysAndValues)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	logw(zapcore.WarnLevel, msg, keysAndValues)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	logw(zapcore.ErrorLevel, msg, keysAndValues)
}

// With returns a logger that adds keysAndValues to every entry, for code that
// logs several steps of the same order or ring.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return sugaredLogger.With(keysAndValues...)
}

// Enabled reports whether entries at lvl are written
func Enabled(lvl zapcore.Level) bool {
	return logger.Core().Enabled(lvl)
}

func logw(lvl zapcore.Level, msg string, keysAndValues []interface{}) {
	if !Enabled(lvl) {
		return
	}
	sugaredLogger.Logw(lvl, msg, keysAndValues...)
}
