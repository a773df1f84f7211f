package sinklog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	clock := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)

	logger, err := NewBuilder().
		FileLocation(path).
		LogLevel("warn").
		Routing("warn:file,error:file").
		MaxFileSize(1 << 20).
		BackupCount(2).
		TimestampFormat("yyyy/MM/dd HH:mm").
		SyncOnWrite(true).
		InternalErrorsToStderr(false).
		Options(WithClock(func() time.Time { return clock })).
		Build()
	require.NoError(t, err)

	logger.Info(NamespaceAuth, "filtered")
	logger.Warn(NamespaceAuth, "token expiring")
	require.NoError(t, logger.Close())

	assert.Equal(t, "2025/06/07 08:09 [WARN] [AUTH] token expiring\n", readFile(t, path))
}

func TestBuilderCustomSinks(t *testing.T) {
	custom := &recordingSink{}

	logger, err := NewBuilder().
		Routing("").
		MinLevel(LevelInfo).
		Sink(LevelInfo, custom).
		Sink(LevelError, custom).
		Build()
	require.NoError(t, err)

	logger.Debug(NamespaceSystem, "dropped")
	logger.Info(NamespaceSystem, "kept")
	logger.Error(NamespaceSystem, "kept too")
	require.NoError(t, logger.Close())

	assert.Equal(t, 2, custom.count())
	assert.Equal(t, 1, custom.closes)
}

func TestBuilderErrorLevelScenario(t *testing.T) {
	counter := &recordingSink{}
	b := NewBuilder().Routing("").LogLevel("ERROR")
	for _, level := range Levels {
		b.Sink(level, counter)
	}
	logger, err := b.Build()
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug(NamespaceSystem, "d")
	logger.Info(NamespaceSystem, "i")
	logger.Warn(NamespaceSystem, "w")
	assert.Equal(t, 0, counter.count())

	logger.Error(NamespaceSystem, "e")
	logger.Fatal(NamespaceSystem, "f")
	assert.Equal(t, 2, counter.count())
}

func TestBuilderDeferredErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
	}{
		{"invalid level", func() *Builder { return NewBuilder().LogLevel("loud") }},
		{"invalid min level", func() *Builder { return NewBuilder().MinLevel(Level(0)) }},
		{"invalid routing", func() *Builder { return NewBuilder().Routing("info") }},
		{"nil sink", func() *Builder { return NewBuilder().Sink(LevelInfo, nil) }},
		{"bad override", func() *Builder { return NewBuilder().Override("unknown=1") }},
		{"missing file location", func() *Builder { return NewBuilder() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.build().Build()
			assert.Error(t, err)
			assert.Nil(t, logger)
		})
	}
}

func TestBuilderClosesCustomSinksOnFailure(t *testing.T) {
	custom := &recordingSink{}

	_, err := NewBuilder().
		Sink(LevelError, custom).
		Routing("error:database").
		Build()
	require.ErrorIs(t, err, ErrUnsupportedSink)
	assert.Equal(t, 1, custom.closes)
}

func TestBuilderOverrideAndConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := DefaultConfig()
	cfg.FileLocation = path
	cfg.Routing = "info:file"
	cfg.InternalErrorsToStderr = false

	logger, err := NewBuilder().
		Config(cfg).
		Override("log_level=info", "ts_format=HH:mm:ss").
		Options(WithClock(func() time.Time { return testTime })).
		Build()
	require.NoError(t, err)

	logger.Info(NamespaceNet, "listening")
	require.NoError(t, logger.Close())

	assert.Equal(t, "03:04:05 [INFO] [NET] listening\n", readFile(t, path))
	// The builder works on its own copy
	assert.Equal(t, DefaultTimestampFormat, cfg.TimestampFormat)
}
