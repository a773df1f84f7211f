package sinklog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sinklog/formatter"
)

// Logger is the application facade: it filters records below the minimum level
// and hands the rest to its Dispatcher. Safe for concurrent use.
type Logger struct {
	minLevel   Level
	dispatcher *Dispatcher
	diag       Diagnostic
	now        func() time.Time

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// LoggerOption customizes a Logger
type LoggerOption func(*Logger)

// WithLoggerDiagnostic sets where dispatch failures are reported
func WithLoggerDiagnostic(d Diagnostic) LoggerOption {
	return func(l *Logger) {
		l.diag = diagnosticOrDefault(d)
	}
}

// WithClock replaces time.Now for record timestamps
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates a Logger over d dropping records below minLevel
func NewLogger(minLevel Level, d *Dispatcher, opts ...LoggerOption) (*Logger, error) {
	if !minLevel.Valid() {
		return nil, fmtErrorf("invalid minimum level: %d", minLevel)
	}
	if d == nil {
		return nil, fmtErrorf("dispatcher cannot be nil")
	}

	l := &Logger{
		minLevel:   minLevel,
		dispatcher: d,
		diag:       stderrDiagnostic,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Log emits one record. Records below the minimum level are dropped silently;
// sink failures go to the diagnostic and are never returned.
func (l *Logger) Log(level Level, ns Namespace, msg string, opts ...RecordOption) {
	if l.closed.Load() {
		return
	}
	if !level.Valid() || !ns.Valid() {
		l.diag("discarding record with invalid level %d or namespace %d", level, ns)
		return
	}
	if level.Priority() < l.minLevel.Priority() {
		return
	}

	rec := Record{
		Content:   msg,
		Level:     level,
		Namespace: ns,
		Timestamp: l.now(),
	}
	for _, opt := range opts {
		opt(&rec)
	}

	// Sinks closed by a concurrent Close return ErrSinkClosed, which is expected
	if err := l.dispatcher.Dispatch(rec); err != nil && !l.closed.Load() {
		l.diag("failed to dispatch %s record: %v", level, err)
	}
}

// Logv joins args into the content; structs, maps and slices are dumped
func (l *Logger) Logv(level Level, ns Namespace, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.Log(level, ns, string(formatter.AppendArgs(nil, args...)))
}

// Debug logs at DEBUG
func (l *Logger) Debug(ns Namespace, msg string, opts ...RecordOption) {
	l.Log(LevelDebug, ns, msg, opts...)
}

// Info logs at INFO
func (l *Logger) Info(ns Namespace, msg string, opts ...RecordOption) {
	l.Log(LevelInfo, ns, msg, opts...)
}

// Warn logs at WARN
func (l *Logger) Warn(ns Namespace, msg string, opts ...RecordOption) {
	l.Log(LevelWarn, ns, msg, opts...)
}

// Error logs at ERROR
func (l *Logger) Error(ns Namespace, msg string, opts ...RecordOption) {
	l.Log(LevelError, ns, msg, opts...)
}

// Fatal logs at FATAL. It does not terminate the process.
func (l *Logger) Fatal(ns Namespace, msg string, opts ...RecordOption) {
	l.Log(LevelFatal, ns, msg, opts...)
}

// Enabled reports whether a record at level would be dispatched
func (l *Logger) Enabled(level Level) bool {
	return !l.closed.Load() && level.Valid() && level.Priority() >= l.minLevel.Priority()
}

// MinLevel returns the configured minimum level
func (l *Logger) MinLevel() Level {
	return l.minLevel
}

// Dispatcher returns the underlying dispatcher
func (l *Logger) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// Close closes every sink once. Later calls return the first result and
// subsequent Log calls are no-ops.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		l.closeErr = l.dispatcher.Close()
	})
	return l.closeErr
}
