package sinklog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, DefaultRouting, cfg.Routing)
	assert.Equal(t, "", cfg.FileLocation)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, int64(3), cfg.BackupCount)
	assert.Equal(t, "yyyy-MM-dd_HH-mm-ss", cfg.TimestampFormat)
	assert.Equal(t, "stdout", cfg.ConsoleTarget)
	assert.Equal(t, "logs/hashmap_flush.log", cfg.BufferLocation)
	assert.Equal(t, int64(5), cfg.BufferFlushThreshold)
	assert.NoError(t, cfg.Validate())

	// Defaults are not shared
	cfg.LogLevel = "ERROR"
	assert.Equal(t, "INFO", DefaultConfig().LogLevel)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.LogLevel = "DEBUG"
	cfg1.FileLocation = "/custom/app.log"

	cfg2 := cfg1.Clone()
	assert.Equal(t, cfg1, cfg2)

	cfg1.LogLevel = "ERROR"
	assert.Equal(t, "DEBUG", cfg2.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:      "invalid level",
			modify:    func(c *Config) { c.LogLevel = "verbose" },
			wantError: "invalid level string",
		},
		{
			name:      "invalid routing",
			modify:    func(c *Config) { c.Routing = "debug=file" },
			wantError: "invalid routing entry",
		},
		{
			name:      "unknown sink kind",
			modify:    func(c *Config) { c.Routing = "debug:kafka" },
			wantError: "invalid sink kind",
		},
		{
			name:      "empty timestamp format",
			modify:    func(c *Config) { c.TimestampFormat = " " },
			wantError: "ts_format cannot be empty",
		},
		{
			name:      "invalid console target",
			modify:    func(c *Config) { c.ConsoleTarget = "tty" },
			wantError: "invalid console_target",
		},
		{
			name:      "zero max size",
			modify:    func(c *Config) { c.MaxFileSize = 0 },
			wantError: "max_file_size must be positive",
		},
		{
			name:      "negative backups",
			modify:    func(c *Config) { c.BackupCount = -1 },
			wantError: "backup_count must be between",
		},
		{
			name:      "negative rate",
			modify:    func(c *Config) { c.ConsoleMaxRate = -5 },
			wantError: "console_max_rate cannot be negative",
		},
		{
			name:      "zero buffer threshold",
			modify:    func(c *Config) { c.BufferFlushThreshold = 0 },
			wantError: "buffer_flush_threshold must be at least 1",
		},
		{
			name:      "negative flush interval",
			modify:    func(c *Config) { c.BufferFlushIntervalMs = -1 },
			wantError: "buffer_flush_interval_ms cannot be negative",
		},
		{
			name:      "zero archive size",
			modify:    func(c *Config) { c.ArchiveMaxSizeMB = 0 },
			wantError: "archive_max_size_mb must be at least 1",
		},
		{
			name:      "negative archive age",
			modify:    func(c *Config) { c.ArchiveMaxAgeDays = -1 },
			wantError: "archive_max_age_days cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sinklog.toml")
	content := `
[log]
log_level = "debug"
file_location = "/var/log/app.log"
max_file_size = 4096
backup_count = 7
routing = "debug:file,error:file+console"
sync_on_write = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/app.log", cfg.FileLocation)
	assert.Equal(t, int64(4096), cfg.MaxFileSize)
	assert.Equal(t, int64(7), cfg.BackupCount)
	assert.Equal(t, "debug:file,error:file+console", cfg.Routing)
	assert.True(t, cfg.SyncOnWrite)
	// Untouched keys keep defaults
	assert.Equal(t, DefaultTimestampFormat, cfg.TimestampFormat)
}

func TestNewConfigFromMissingFile(t *testing.T) {
	cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestNewConfigFromMap(t *testing.T) {
	cfg, err := NewConfigFromMap(map[string]string{
		"log_level":     "error",
		"file_location": "logs/app.log",
		"max_file_size": "100",
		"backup_count":  "2",
		"ts_format":     "HH:mm:ss",
		// Options of other sink kinds are ignored
		"dbUrl":      "jdbc:postgresql://localhost/logs",
		"dbUser":     "logger",
		"dbPassword": "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "logs/app.log", cfg.FileLocation)
	assert.Equal(t, int64(100), cfg.MaxFileSize)
	assert.Equal(t, int64(2), cfg.BackupCount)
	assert.Equal(t, "HH:mm:ss", cfg.TimestampFormat)

	_, err = NewConfigFromMap(map[string]string{"max_file_size": "big", "backup_count": "many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple configuration errors")

	_, err = NewConfigFromMap(map[string]string{"log_level": "loud"})
	assert.Error(t, err)
}

func TestApplyOverride(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		verify    func(t *testing.T, cfg *Config)
		wantError bool
	}{
		{
			name:      "basic overrides",
			overrides: []string{"log_level=warn", "file_location=/tmp/app.log", "backup_count=9"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.Equal(t, "/tmp/app.log", cfg.FileLocation)
				assert.Equal(t, int64(9), cfg.BackupCount)
			},
		},
		{
			name:      "typed values",
			overrides: []string{"sync_on_write=true", "console_max_rate=12.5", "buffer_flush_interval_ms=250"},
			verify: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.SyncOnWrite)
				assert.Equal(t, 12.5, cfg.ConsoleMaxRate)
				assert.Equal(t, int64(250), cfg.BufferFlushIntervalMs)
			},
		},
		{
			name:      "routing with separators",
			overrides: []string{"routing=warn:file,error:file+console"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn:file,error:file+console", cfg.Routing)
			},
		},
		{name: "unknown key", overrides: []string{"dbUrl=x"}, wantError: true},
		{name: "bad integer", overrides: []string{"max_file_size=abc"}, wantError: true},
		{name: "bad boolean", overrides: []string{"sync_on_write=maybe"}, wantError: true},
		{name: "missing equals", overrides: []string{"log_level"}, wantError: true},
		{name: "fails validation", overrides: []string{"max_file_size=-1"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyOverride(tt.overrides...)

			if tt.wantError {
				assert.Error(t, err)
				// A rejected override leaves the config untouched
				assert.Equal(t, DefaultConfig(), cfg)
				return
			}
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}
}

func TestParseRouting(t *testing.T) {
	routing, err := ParseRouting(DefaultRouting)
	require.NoError(t, err)
	assert.Equal(t, map[Level][]SinkKind{
		LevelDebug: {SinkFile},
		LevelInfo:  {SinkFile},
		LevelWarn:  {SinkFile},
		LevelError: {SinkFile, SinkConsole},
		LevelFatal: {SinkFile, SinkConsole},
	}, routing)

	routing, err = ParseRouting(" INFO : file + file + hashmap ")
	require.NoError(t, err)
	assert.Equal(t, []SinkKind{SinkFile, SinkBuffer}, routing[LevelInfo])

	routing, err = ParseRouting("")
	require.NoError(t, err)
	assert.Empty(t, routing)

	_, err = ParseRouting("info:file,info:console")
	assert.Error(t, err)
	_, err = ParseRouting("trace:file")
	assert.Error(t, err)
}
