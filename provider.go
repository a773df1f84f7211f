package sinklog

import (
	"strings"
	"time"
)

// DefaultRouting sends every level to the file and errors to the console as well
const DefaultRouting = "debug:file,info:file,warn:file,error:file+console,fatal:file+console"

// ParseRouting parses "level:kind+kind,..." into the sink kinds per level.
// An empty string yields an empty table.
func ParseRouting(s string) (map[Level][]SinkKind, error) {
	routing := make(map[Level][]SinkKind)
	if strings.TrimSpace(s) == "" {
		return routing, nil
	}

	for _, entry := range strings.Split(s, ",") {
		levelName, kindList, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmtErrorf("invalid routing entry '%s', expected level:kind[+kind]", strings.TrimSpace(entry))
		}
		level, err := ParseLevel(levelName)
		if err != nil {
			return nil, err
		}
		if _, dup := routing[level]; dup {
			return nil, fmtErrorf("duplicate routing entry for level %s", level)
		}

		var kinds []SinkKind
		for _, name := range strings.Split(kindList, "+") {
			kind, err := ParseSinkKind(name)
			if err != nil {
				return nil, err
			}
			if !containsKind(kinds, kind) {
				kinds = append(kinds, kind)
			}
		}
		routing[level] = kinds
	}
	return routing, nil
}

// New builds a Logger from cfg: it creates each sink kind routed at or above the
// minimum level once and shares it between levels. On failure every sink
// already created is closed.
func New(cfg *Config, opts ...LoggerOption) (*Logger, error) {
	return build(cfg, nil, opts)
}

// build creates the configured sinks and appends extra, caller supplied sinks
// to their levels
func build(cfg *Config, extra map[Level][]Sink, opts []LoggerOption) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	minLevel, _ := ParseLevel(cfg.LogLevel)
	routing, _ := ParseRouting(cfg.Routing)

	diag := discardDiagnostic
	if cfg.InternalErrorsToStderr {
		diag = stderrDiagnostic
	}

	var kinds []SinkKind
	for _, level := range Levels {
		if level.Priority() < minLevel.Priority() {
			continue
		}
		for _, kind := range routing[level] {
			if !containsKind(kinds, kind) {
				kinds = append(kinds, kind)
			}
		}
	}
	hasExtra := false
	for level, sinks := range extra {
		if level.Priority() >= minLevel.Priority() && len(sinks) > 0 {
			hasExtra = true
		}
	}
	if len(kinds) == 0 && !hasExtra {
		return nil, fmtErrorf("minimum level %s: %w", minLevel, ErrNoSinks)
	}

	sinks := make(map[SinkKind]Sink, len(kinds))
	for _, kind := range kinds {
		s, err := newSink(kind, cfg, diag)
		if err != nil {
			for _, created := range sinks {
				_ = closeSafely(created)
			}
			return nil, err
		}
		sinks[kind] = s
	}

	routes := make(map[Level][]Sink)
	for _, level := range Levels {
		if level.Priority() < minLevel.Priority() {
			continue
		}
		for _, kind := range routing[level] {
			routes[level] = append(routes[level], sinks[kind])
		}
		routes[level] = append(routes[level], extra[level]...)
	}

	opts = append([]LoggerOption{WithLoggerDiagnostic(diag)}, opts...)
	return NewLogger(minLevel, NewDispatcher(routes), opts...)
}

// NewFromOptions builds a Logger from a flat option map such as
// {"log_level": "DEBUG", "file_location": "logs/app.log"}
func NewFromOptions(options map[string]string, opts ...LoggerOption) (*Logger, error) {
	cfg, err := NewConfigFromMap(options)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

func newSink(kind SinkKind, cfg *Config, diag Diagnostic) (Sink, error) {
	switch kind {
	case SinkFile:
		if cfg.FileLocation == "" {
			return nil, fmtErrorf("file sink requires file_location: %w", ErrMissingOption)
		}
		return NewFileSink(cfg.FileLocation,
			WithMaxFileSize(cfg.MaxFileSize),
			WithBackupCount(int(cfg.BackupCount)),
			WithTimestampFormat(cfg.TimestampFormat),
			WithSyncOnWrite(cfg.SyncOnWrite),
			WithDiagnostic(diag),
		)
	case SinkConsole:
		return NewConsoleSink(cfg.ConsoleTarget,
			WithTimestampFormat(cfg.TimestampFormat),
			WithRateLimit(cfg.ConsoleMaxRate),
		)
	case SinkBuffer:
		return NewBufferedSink(cfg.BufferLocation,
			WithTimestampFormat(cfg.TimestampFormat),
			WithFlushThreshold(int(cfg.BufferFlushThreshold)),
			WithFlushInterval(time.Duration(cfg.BufferFlushIntervalMs)*time.Millisecond),
			WithDiagnostic(diag),
		)
	case SinkArchive:
		if cfg.ArchiveLocation == "" {
			return nil, fmtErrorf("archive sink requires archive_location: %w", ErrMissingOption)
		}
		return NewArchiveSink(cfg.ArchiveLocation, int(cfg.ArchiveMaxSizeMB),
			WithBackupCount(int(cfg.BackupCount)),
			WithMaxAge(int(cfg.ArchiveMaxAgeDays)),
			WithTimestampFormat(cfg.TimestampFormat),
		)
	default:
		return nil, fmtErrorf("sink kind '%s': %w", kind, ErrUnsupportedSink)
	}
}

func containsKind(kinds []SinkKind, kind SinkKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
