package sinklog

// Builder provides a fluent API for building a Logger.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg   *Config
	extra map[Level][]Sink
	opts  []LoggerOption
	err   error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg:   DefaultConfig(),
		extra: make(map[Level][]Sink),
	}
}

// Build validates the configuration and creates the Logger.
// Sinks passed to Sink are closed if building fails.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		b.closeExtra()
		return nil, b.err
	}

	logger, err := build(b.cfg, b.extra, b.opts)
	if err != nil {
		b.closeExtra()
		return nil, err
	}
	return logger, nil
}

// Config applies a complete configuration, replacing earlier settings.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg != nil {
		b.cfg = cfg.Clone()
	}
	return b
}

// LogLevel sets the minimum level from its name.
func (b *Builder) LogLevel(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.LogLevel = level
	return b
}

// MinLevel sets the minimum level.
func (b *Builder) MinLevel(level Level) *Builder {
	if b.err != nil {
		return b
	}
	if !level.Valid() {
		b.err = fmtErrorf("invalid minimum level: %d", level)
		return b
	}
	b.cfg.LogLevel = level.String()
	return b
}

// FileLocation sets the active log file path.
func (b *Builder) FileLocation(path string) *Builder {
	b.cfg.FileLocation = path
	return b
}

// MaxFileSize sets the rotation threshold in bytes.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// BackupCount sets the number of compressed backups to keep.
func (b *Builder) BackupCount(n int64) *Builder {
	b.cfg.BackupCount = n
	return b
}

// TimestampFormat sets the timestamp pattern.
func (b *Builder) TimestampFormat(pattern string) *Builder {
	b.cfg.TimestampFormat = pattern
	return b
}

// SyncOnWrite fsyncs the log file after each record.
func (b *Builder) SyncOnWrite(enable bool) *Builder {
	b.cfg.SyncOnWrite = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// ConsoleMaxRate limits console output in lines per second.
func (b *Builder) ConsoleMaxRate(linesPerSecond float64) *Builder {
	b.cfg.ConsoleMaxRate = linesPerSecond
	return b
}

// BufferLocation sets the buffered sink flush file.
func (b *Builder) BufferLocation(path string) *Builder {
	b.cfg.BufferLocation = path
	return b
}

// BufferFlushThreshold sets the buffered record count that triggers a flush.
func (b *Builder) BufferFlushThreshold(n int64) *Builder {
	b.cfg.BufferFlushThreshold = n
	return b
}

// ArchiveLocation sets the archive sink file.
func (b *Builder) ArchiveLocation(path string) *Builder {
	b.cfg.ArchiveLocation = path
	return b
}

// Routing replaces the routing table, e.g. "warn:file,error:file+console".
func (b *Builder) Routing(routing string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseRouting(routing); err != nil {
		b.err = err
		return b
	}
	b.cfg.Routing = routing
	return b
}

// Sink routes a caller supplied sink for level, after the configured ones.
// An empty Routing("") makes these the only sinks.
func (b *Builder) Sink(level Level, s Sink) *Builder {
	if b.err != nil {
		return b
	}
	if !level.Valid() || s == nil {
		b.err = fmtErrorf("invalid sink registration for level %d", level)
		return b
	}
	b.extra[level] = append(b.extra[level], s)
	return b
}

// Override applies "key=value" strings.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.ApplyOverride(overrides...); err != nil {
		b.err = err
	}
	return b
}

// InternalErrorsToStderr reports sink failures on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Options adds Logger options such as WithClock.
func (b *Builder) Options(opts ...LoggerOption) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *Builder) closeExtra() {
	seen := make(map[Sink]struct{})
	for _, sinks := range b.extra {
		for _, s := range sinks {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			_ = closeSafely(s)
		}
	}
}

// Example usage:
// logger, err := sinklog.NewBuilder().
//
//	FileLocation("/var/log/app.log").
//	LogLevel("debug").
//	MaxFileSize(10 << 20).
//	BackupCount(5).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.Info(sinklog.NamespaceSystem, "logger initialized")
//
// }
