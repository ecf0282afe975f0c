package util

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalLogger *zap.SugaredLogger
	loggerOnce   sync.Once
	loggerErr    error
)

// InitLogger initializes the global logger. Only the first call has an effect.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	loggerOnce.Do(func() {
		globalLogger, loggerErr = NewLogger(logLevel, logFile, debugToConsole)
	})
	return loggerErr
}

// Logger returns the global logger, or a no-op logger before InitLogger.
func Logger() *zap.SugaredLogger {
	if globalLogger == nil {
		return zap.NewNop().Sugar()
	}
	return globalLogger
}

// SyncLogger flushes buffered entries.
func SyncLogger() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
