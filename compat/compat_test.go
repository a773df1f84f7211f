package compat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panjf2000/gnet/v2/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/formatter"
)

var (
	_ logging.Logger  = (*GnetAdapter)(nil)
	_ fasthttp.Logger = (*FastHTTPAdapter)(nil)
)

// createTestCompatBuilder creates a standard setup for compatibility adapter tests
func createTestCompatBuilder(t *testing.T) (*Builder, *sinklog.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	appLogger, err := sinklog.NewBuilder().
		FileLocation(path).
		LogLevel("debug").
		Routing("debug:file,info:file,warn:file,error:file,fatal:file").
		InternalErrorsToStderr(false).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = appLogger.Close() })

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, path
}

// readLogLines parses every line of the log file
func readLogLines(t *testing.T, path string) []formatter.Fields {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fields []formatter.Fields
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		f, err := formatter.Parse(line)
		require.NoError(t, err)
		fields = append(fields, f)
	}
	return fields
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.NotNil(t, gnetAdapter)
		assert.Same(t, logger, gnetAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		logCfg := sinklog.DefaultConfig()
		logCfg.FileLocation = filepath.Join(t.TempDir(), "app.log")
		logCfg.InternalErrorsToStderr = false

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger1, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, logger1, fasthttpAdapter.logger)
		defer logger1.Close()
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := NewBuilder().BuildFastHTTP()
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		logCfg := sinklog.DefaultConfig()
		_, err := NewBuilder().WithConfig(logCfg).BuildGnet()
		assert.ErrorIs(t, err, sinklog.ErrMissingOption)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and format
func TestGnetAdapter(t *testing.T) {
	builder, _, path := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(
		WithFatalHandler(func(msg string) { fatalMsg = msg }),
		WithGnetHost("edge-1"),
	)
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	lines := readLogLines(t, path)
	expected := []struct{ level, msg string }{
		{"DEBUG", "gnet debug id=1"},
		{"INFO", "gnet info id=2"},
		{"WARN", "gnet warn id=3"},
		{"ERROR", "gnet error id=4"},
		{"FATAL", "gnet fatal id=5"},
	}
	require.Len(t, lines, len(expected))

	for i, want := range expected {
		assert.Equal(t, want.level, lines[i].Level)
		assert.Equal(t, "NET", lines[i].Namespace)
		assert.Equal(t, want.msg, lines[i].Message)
		assert.Equal(t, "edge-1", lines[i].HostName)
	}
	assert.Equal(t, "gnet fatal id=5", fatalMsg)
}

func TestGnetAdapterNamespace(t *testing.T) {
	builder, _, path := createTestCompatBuilder(t)

	adapter, err := builder.BuildGnet(WithGnetNamespace(sinklog.NamespaceSystem))
	require.NoError(t, err)
	adapter.Infof("event loop started")

	lines := readLogLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "SYSTEM", lines[0].Namespace)
	assert.Empty(t, lines[0].HostName)
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output and level detection
func TestFastHTTPAdapter(t *testing.T) {
	builder, _, path := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
		"panic recovered in handler",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	lines := readLogLines(t, path)
	expectedLevels := []string{"INFO", "DEBUG", "WARN", "ERROR", "FATAL"}
	require.Len(t, lines, len(testMessages))

	for i, line := range lines {
		assert.Equal(t, expectedLevels[i], line.Level)
		assert.Equal(t, "HTTP", line.Namespace)
		assert.Equal(t, testMessages[i], line.Message)
	}
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, _, path := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(sinklog.LevelWarn),
		WithLevelDetector(func(string) sinklog.Level { return 0 }),
		WithHTTPNamespace(sinklog.NamespaceAuth),
	)
	require.NoError(t, err)
	adapter.Printf("login attempt from %s", "10.0.0.1")

	lines := readLogLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0].Level)
	assert.Equal(t, "AUTH", lines[0].Namespace)
	assert.Equal(t, "login attempt from 10.0.0.1", lines[0].Message)
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want sinklog.Level
	}{
		{"request served", sinklog.LevelInfo},
		{"Connection FAILED", sinklog.LevelError},
		{"fatal: cannot bind", sinklog.LevelFatal},
		{"deprecated header", sinklog.LevelWarn},
		{"trace id attached", sinklog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLogLevel(tt.msg), tt.msg)
	}
}
