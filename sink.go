package sinklog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sink is a log destination. Implementations must be safe for concurrent use and
// comparable (pointer receivers), since one sink may serve several levels.
type Sink interface {
	// Write persists or displays one record
	Write(rec Record) error
	// Close flushes buffered data and releases resources
	Close() error
}

// Sentinel errors
var (
	ErrSinkClosed      = errors.New("sinklog: sink is closed")
	ErrUnsupportedSink = errors.New("sinklog: unsupported sink kind")
	ErrMissingOption   = errors.New("sinklog: required option missing")
	ErrNoSinks         = errors.New("sinklog: no sinks resolvable for minimum level")
)

// SinkKind names a built-in sink type in routing configuration
type SinkKind string

// Sink kinds
const (
	SinkFile     SinkKind = "file"
	SinkConsole  SinkKind = "console"
	SinkBuffer   SinkKind = "buffer"
	SinkArchive  SinkKind = "archive"
	SinkDatabase SinkKind = "database"
)

// ParseSinkKind validates a sink kind name. Database is recognized but has no implementation.
func ParseSinkKind(s string) (SinkKind, error) {
	kind := SinkKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case SinkFile, SinkConsole, SinkBuffer, SinkArchive, SinkDatabase:
		return kind, nil
	case "hashmap":
		return SinkBuffer, nil
	default:
		return "", fmtErrorf("invalid sink kind: '%s' (use file, console, buffer, archive)", s)
	}
}

// writeSafely calls s.Write converting a panic into an error
func writeSafely(s Sink, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sinklog: sink %T panicked: %v", s, r)
		}
	}()
	return s.Write(rec)
}

// closeSafely calls s.Close converting a panic into an error
func closeSafely(s Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sinklog: sink %T panicked on close: %v", s, r)
		}
	}()
	return s.Close()
}

// sinkOptions collects settings shared by the built-in sinks; each sink reads the
// fields that apply to it
type sinkOptions struct {
	maxFileSize   int64
	backupCount   int
	pattern       string
	syncOnWrite   bool
	diag          Diagnostic
	rateLimit     float64
	threshold     int
	flushInterval time.Duration
	maxAgeDays    int
}

func defaultSinkOptions() sinkOptions {
	return sinkOptions{
		maxFileSize: DefaultMaxFileSize,
		backupCount: int(DefaultBackupCount),
		pattern:     DefaultTimestampFormat,
		diag:        stderrDiagnostic,
		threshold:   DefaultBufferThreshold,
	}
}

// SinkOption customizes a built-in sink
type SinkOption func(*sinkOptions)

// WithMaxFileSize sets the size in bytes that triggers rotation
func WithMaxFileSize(size int64) SinkOption {
	return func(o *sinkOptions) {
		o.maxFileSize = size
	}
}

// WithBackupCount sets how many compressed backups are retained
func WithBackupCount(n int) SinkOption {
	return func(o *sinkOptions) {
		o.backupCount = n
	}
}

// WithTimestampFormat sets the timestamp pattern, either date-pattern letters
// ("yyyy-MM-dd HH:mm:ss.SSS") or a Go layout
func WithTimestampFormat(pattern string) SinkOption {
	return func(o *sinkOptions) {
		o.pattern = pattern
	}
}

// WithSyncOnWrite fsyncs the file after every record
func WithSyncOnWrite(enable bool) SinkOption {
	return func(o *sinkOptions) {
		o.syncOnWrite = enable
	}
}

// WithDiagnostic routes internal sink failures (rotation steps, sync errors)
func WithDiagnostic(d Diagnostic) SinkOption {
	return func(o *sinkOptions) {
		o.diag = diagnosticOrDefault(d)
	}
}

// WithRateLimit caps console output in lines per second, 0 disables the limit
func WithRateLimit(linesPerSecond float64) SinkOption {
	return func(o *sinkOptions) {
		o.rateLimit = linesPerSecond
	}
}

// WithFlushThreshold sets the record count that triggers a buffered flush
func WithFlushThreshold(n int) SinkOption {
	return func(o *sinkOptions) {
		o.threshold = n
	}
}

// WithFlushInterval enables periodic flushing of the buffered sink
func WithFlushInterval(d time.Duration) SinkOption {
	return func(o *sinkOptions) {
		o.flushInterval = d
	}
}

// WithMaxAge sets the archive retention in days, 0 keeps archives regardless of age
func WithMaxAge(days int) SinkOption {
	return func(o *sinkOptions) {
		o.maxAgeDays = days
	}
}

func applySinkOptions(opts []SinkOption) sinkOptions {
	o := defaultSinkOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
