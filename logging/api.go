package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Appender is a log sink a Logger writes formatted entries to. Multiple appenders can be
// attached to one Logger (e.g. stdout plus a test observer).
type Appender interface {
	Write(entry zapcore.Entry, fields []zapcore.Field) error
	Sync() error
}

// Logger is the logging interface every calibration package depends on. It is implemented
// by *impl and backed by a zap.SugaredLogger for the structured/leveled methods, with
// Sublogger deriving a child logger named <parent>.<subname> (§7).
type Logger interface {
	Desugar() *zap.Logger
	AsZap() *zap.SugaredLogger
	Named(name string) *zap.SugaredLogger
	With(args ...interface{}) *zap.SugaredLogger
	WithOptions(opts ...zap.Option) *zap.SugaredLogger
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	Sync() error

	SetLevel(level Level)
	GetLevel() Level
	Level() zapcore.Level

	Debug(args ...interface{})
	CDebug(ctx context.Context, args ...interface{})
	Debugf(template string, args ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
}

var globalLoggerRegistry = newRegistry()
