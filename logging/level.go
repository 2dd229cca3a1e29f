package logging

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log line, ordered so that higher values are more severe.
type Level int32

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// AsZap converts a Level to its zapcore equivalent for interop with the underlying
// zap.SugaredLogger that backs AsZap/Desugar.
func (level Level) AsZap() zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (level Level) String() string {
	switch level {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return "Info"
	}
}

// LevelFromString parses a Level from its case-insensitive name, as found in a
// LoggerPatternConfig.Level field.
func LevelFromString(levelStr string) (Level, error) {
	switch levelStr {
	case "Debug", "DEBUG", "debug":
		return DEBUG, nil
	case "Info", "INFO", "info", "":
		return INFO, nil
	case "Warn", "WARN", "warn":
		return WARN, nil
	case "Error", "ERROR", "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", levelStr)
	}
}

// AtomicLevel is a concurrency-safe Level, analogous to zap.AtomicLevel but over our own
// Level type so per-logger levels can be read/written from concurrent solver goroutines.
type AtomicLevel struct {
	level *atomic.Int32
}

// NewAtomicLevelAt constructs an AtomicLevel initialized to level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	al := AtomicLevel{level: &atomic.Int32{}}
	al.Set(level)
	return al
}

// Get returns the current Level.
func (al AtomicLevel) Get() Level {
	return Level(al.level.Load())
}

// Set updates the current Level.
func (al AtomicLevel) Set(level Level) {
	al.level.Store(int32(level))
}

// GlobalLogLevel gates every zap.SugaredLogger built by Logger.AsZap, so flipping it affects
// every logger sharing the process-wide zap backend regardless of its own per-logger Level.
var GlobalLogLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// NewZapLoggerConfig returns the zap.Config every Logger.AsZap call builds its backing
// zap.SugaredLogger from.
func NewZapLoggerConfig() zap.Config {
	return NewLoggerConfig()
}
