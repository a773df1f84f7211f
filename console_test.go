package sinklog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestConsoleSinkTargets(t *testing.T) {
	for _, target := range []string{"", "stdout", "STDERR"} {
		s, err := NewConsoleSink(target)
		require.NoError(t, err, target)
		require.NoError(t, s.Close())
	}

	_, err := NewConsoleSink("syslog")
	assert.Error(t, err)

	_, err = NewWriterSink(nil)
	assert.Error(t, err)

	_, err = NewWriterSink(&bytes.Buffer{}, WithRateLimit(-1))
	assert.Error(t, err)
}

func TestConsoleSinkWrite(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriterSink(&buf, WithTimestampFormat("yyyy-MM-dd HH:mm:ss"))
	require.NoError(t, err)

	rec := testRecord("multi\nline")
	rec.Level = LevelError
	rec.HostName = "api-2"
	require.NoError(t, s.Write(rec))

	assert.Equal(t, "2024-01-02 03:04:05 [ERROR] [SYSTEM] multi<0a>line (host=api-2)\n", buf.String())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(rec), ErrSinkClosed)
	assert.ErrorIs(t, s.Close(), ErrSinkClosed)
}

func TestConsoleSinkRateLimit(t *testing.T) {
	var buf bytes.Buffer
	// Burst of two, refill far slower than the test runs
	s, err := NewWriterSink(&buf, WithRateLimit(2))
	require.NoError(t, err)
	s.limiter.SetLimit(0.001)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Write(testRecord("burst")))
	}

	assert.Equal(t, 2, strings.Count(buf.String(), "burst"))
	assert.Equal(t, uint64(8), s.Suppressed())

	// The next allowed line is preceded by a summary
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	buf.Reset()
	require.NoError(t, s.Write(testRecord("resumed")))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN] [SYSTEM] console rate limit suppressed 8 lines")
	assert.Contains(t, lines[1], "resumed")
	assert.Equal(t, uint64(0), s.Suppressed())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestConsoleSinkWriteError(t *testing.T) {
	s, err := NewWriterSink(failingWriter{})
	require.NoError(t, err)

	err = s.Write(testRecord("lost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
