package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// DefaultTimeFormatStr is the timestamp layout every stdout-facing appender uses.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// callerToString renders an EntryCaller as "pkg/file.go:line".
func callerToString(caller *zapcore.EntryCaller) string {
	if caller == nil || !caller.Defined {
		return ""
	}
	return caller.TrimmedPath()
}

type stdoutAppender struct{}

// NewStdoutAppender returns an appender that writes formatted entries to stdout.
func NewStdoutAppender() Appender {
	return &stdoutAppender{}
}

func (sa *stdoutAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const maxFields = 10
	toPrint := make([]string, 0, maxFields)
	toPrint = append(toPrint, entry.Time.Format(DefaultTimeFormatStr))
	toPrint = append(toPrint, strings.ToUpper(entry.Level.String()))
	toPrint = append(toPrint, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	toPrint = append(toPrint, entry.Message)

	if len(fields) == 0 {
		fmt.Fprintln(os.Stdout, strings.Join(toPrint, "\t"))
		return nil
	}

	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		fmt.Fprintln(os.Stdout, strings.Join(toPrint, "\t"))
		return err
	}
	toPrint = append(toPrint, buf.String())
	fmt.Fprintln(os.Stdout, strings.Join(toPrint, "\t"))
	return nil
}

func (sa *stdoutAppender) Sync() error {
	return nil
}

// NewStdoutTestAppender returns a stdout appender for use by NewObservedTestLogger, where
// output goes to the process's stdout rather than through testing.TB.Log.
func NewStdoutTestAppender() Appender {
	return NewStdoutAppender()
}
