package sinklog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to the configuration. Unlike option
// maps, unknown keys are errors. Nothing changes unless every override is valid.
//
// Example:
//
//	cfg := sinklog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "file_location=/var/log/app.log",
//	    "log_level=debug",
//	    "backup_count=5",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	cfg := c.Clone()

	var errors []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := cfg.validate(); err != nil {
		return err
	}
	*c = *cfg
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("sinklog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "sinklog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Routing
	case "log_level":
		if _, err := ParseLevel(value); err != nil {
			return fmtErrorf("invalid log_level value '%s': %w", value, err)
		}
		cfg.LogLevel = value
	case "routing":
		cfg.Routing = value

	// File sink
	case "file_location":
		cfg.FileLocation = value
	case "max_file_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_file_size '%s': %w", value, err)
		}
		cfg.MaxFileSize = intVal
	case "backup_count":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for backup_count '%s': %w", value, err)
		}
		cfg.BackupCount = intVal
	case "ts_format":
		cfg.TimestampFormat = value
	case "sync_on_write":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for sync_on_write '%s': %w", value, err)
		}
		cfg.SyncOnWrite = boolVal

	// Console sink
	case "console_target":
		cfg.ConsoleTarget = value
	case "console_max_rate":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value for console_max_rate '%s': %w", value, err)
		}
		cfg.ConsoleMaxRate = floatVal

	// Buffered sink
	case "buffer_location":
		cfg.BufferLocation = value
	case "buffer_flush_threshold":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_flush_threshold '%s': %w", value, err)
		}
		cfg.BufferFlushThreshold = intVal
	case "buffer_flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_flush_interval_ms '%s': %w", value, err)
		}
		cfg.BufferFlushIntervalMs = intVal

	// Archive sink
	case "archive_location":
		cfg.ArchiveLocation = value
	case "archive_max_size_mb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for archive_max_size_mb '%s': %w", value, err)
		}
		cfg.ArchiveMaxSizeMB = intVal
	case "archive_max_age_days":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for archive_max_age_days '%s': %w", value, err)
		}
		cfg.ArchiveMaxAgeDays = intVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
