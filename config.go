package sinklog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values
type Config struct {
	// Routing
	LogLevel string `toml:"log_level"` // Minimum level, case-insensitive
	Routing  string `toml:"routing"`   // "level:kind+kind,..." level to sink kinds

	// File sink
	FileLocation    string `toml:"file_location"`
	MaxFileSize     int64  `toml:"max_file_size"` // Bytes before rotation
	BackupCount     int64  `toml:"backup_count"`  // Compressed backups kept
	TimestampFormat string `toml:"ts_format"`     // Date pattern or Go layout
	SyncOnWrite     bool   `toml:"sync_on_write"`

	// Console sink
	ConsoleTarget  string  `toml:"console_target"`   // "stdout" or "stderr"
	ConsoleMaxRate float64 `toml:"console_max_rate"` // Lines per second, 0 is unlimited

	// Buffered sink
	BufferLocation        string `toml:"buffer_location"`
	BufferFlushThreshold  int64  `toml:"buffer_flush_threshold"`
	BufferFlushIntervalMs int64  `toml:"buffer_flush_interval_ms"` // 0 disables periodic flush

	// Archive sink
	ArchiveLocation   string `toml:"archive_location"`
	ArchiveMaxSizeMB  int64  `toml:"archive_max_size_mb"`
	ArchiveMaxAgeDays int64  `toml:"archive_max_age_days"` // 0 keeps archives regardless of age

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Report sink failures on stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	LogLevel: DefaultLogLevel.String(),
	Routing:  DefaultRouting,

	MaxFileSize:     DefaultMaxFileSize,
	BackupCount:     DefaultBackupCount,
	TimestampFormat: DefaultTimestampFormat,

	ConsoleTarget: "stdout",

	BufferLocation:       DefaultBufferLocation,
	BufferFlushThreshold: DefaultBufferThreshold,

	ArchiveMaxSizeMB: 10,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads a [log] table from a TOML file over the defaults.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromMap builds a Config from a flat option map. Keys this package does
// not know (options meant for other sink kinds) are ignored.
func NewConfigFromMap(options map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	var errs []error
	for key, value := range options {
		if !isConfigKey(key) {
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// extractConfig copies values found by the loader into cfg
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// isConfigKey reports whether key matches a toml tag of Config
func isConfigKey(key string) bool {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == key {
			return true
		}
	}
	return false
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		case int:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// validate checks values independent of which sinks end up in use.
// Sink specific requirements (file_location) are checked when the sink is built.
func (c *Config) validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := ParseRouting(c.Routing); err != nil {
		return err
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("ts_format cannot be empty")
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.MaxFileSize <= 0 {
		return fmtErrorf("max_file_size must be positive: %d", c.MaxFileSize)
	}
	if c.BackupCount < 0 || c.BackupCount > maxBackupCount {
		return fmtErrorf("backup_count must be between 0 and %d: %d", maxBackupCount, c.BackupCount)
	}
	if c.ConsoleMaxRate < 0 {
		return fmtErrorf("console_max_rate cannot be negative: %g", c.ConsoleMaxRate)
	}
	if c.BufferFlushThreshold < 1 {
		return fmtErrorf("buffer_flush_threshold must be at least 1: %d", c.BufferFlushThreshold)
	}
	if c.BufferFlushIntervalMs < 0 {
		return fmtErrorf("buffer_flush_interval_ms cannot be negative: %d", c.BufferFlushIntervalMs)
	}
	if c.ArchiveMaxSizeMB < 1 {
		return fmtErrorf("archive_max_size_mb must be at least 1: %d", c.ArchiveMaxSizeMB)
	}
	if c.ArchiveMaxAgeDays < 0 {
		return fmtErrorf("archive_max_age_days cannot be negative: %d", c.ArchiveMaxAgeDays)
	}
	return nil
}

// Validate reports the first invalid value in the configuration
func (c *Config) Validate() error {
	return c.validate()
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
