package logging

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

// bufferAppender writes formatted entries to an in-memory buffer, for asserting on log output
// without going through stdout or testing.TB.Log.
type bufferAppender struct {
	buf *bytes.Buffer
}

func (ba *bufferAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	parts := []string{entry.Message}
	if len(fields) > 0 {
		jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
		buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
		if err != nil {
			return err
		}
		parts = append(parts, buf.String())
	}
	fmt.Fprintln(ba.buf, strings.Join(parts, "\t"))
	return nil
}

func (ba *bufferAppender) Sync() error {
	return nil
}

func newBufferedTestLogger() (*impl, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &impl{"impl", NewAtomicLevelAt(DEBUG), false, []Appender{&bufferAppender{buf}}}, buf
}

func nextLine(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	return strings.TrimSuffix(line, "\n")
}

func TestLoggerWritesInfoAndInfof(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferedTestLogger()

	logger.Info("impl Info log")
	test.That(t, nextLine(t, buf), test.ShouldEqual, "impl Info log")

	logger.Infof("impl %s log", "infof")
	test.That(t, nextLine(t, buf), test.ShouldEqual, "impl infof log")
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferedTestLogger()

	logger.Infow("impl logw", "key", "value")
	test.That(t, nextLine(t, buf), test.ShouldEqual, `impl logw	{"key":"value"}`)
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferedTestLogger()
	logger.SetLevel(WARN)

	logger.Info("suppressed")
	logger.Warn("kept")

	test.That(t, nextLine(t, buf), test.ShouldEqual, "kept")
}

func TestSubloggerInheritsLevelAndAppenders(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferedTestLogger()
	logger.SetLevel(WARN)

	sub := logger.Sublogger("child")
	sub.Info("suppressed")
	sub.Warn("kept")

	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)
	test.That(t, nextLine(t, buf), test.ShouldEqual, "kept")
}
