package sinklog

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/sinklog/formatter"
)

// ConsoleSink writes formatted lines to stdout, stderr or any writer
type ConsoleSink struct {
	mu         sync.Mutex
	w          io.Writer
	formatter  *formatter.Formatter
	limiter    *rate.Limiter
	suppressed uint64
	closed     bool
}

// NewConsoleSink creates a sink for target "stdout" (default) or "stderr"
func NewConsoleSink(target string, opts ...SinkOption) (*ConsoleSink, error) {
	var w io.Writer
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		return nil, fmtErrorf("invalid console target: '%s' (use stdout, stderr)", target)
	}
	return NewWriterSink(w, opts...)
}

// NewWriterSink creates a console-style sink over w
func NewWriterSink(w io.Writer, opts ...SinkOption) (*ConsoleSink, error) {
	if w == nil {
		return nil, fmtErrorf("console writer cannot be nil")
	}
	o := applySinkOptions(opts)
	if o.rateLimit < 0 {
		return nil, fmtErrorf("console_max_rate cannot be negative, got %g", o.rateLimit)
	}

	s := &ConsoleSink{
		w:         w,
		formatter: formatter.New(o.pattern),
	}
	if o.rateLimit > 0 {
		burst := int(o.rateLimit)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(o.rateLimit), burst)
	}
	return s, nil
}

// Write formats and writes rec. Lines over the rate limit are counted and
// summarized before the next line that is let through.
func (s *ConsoleSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if s.limiter != nil && !s.limiter.Allow() {
		s.suppressed++
		return nil
	}

	if s.suppressed > 0 {
		summary := s.formatter.Line(time.Now(), LevelWarn.String(), NamespaceSystem.String(),
			"console rate limit suppressed "+itoa(int(s.suppressed))+" lines", "", "")
		if _, err := s.w.Write(summary); err != nil {
			return fmtErrorf("failed to write to console: %w", err)
		}
		s.suppressed = 0
	}

	line := s.formatter.Line(rec.Timestamp, rec.Level.String(), rec.Namespace.String(),
		rec.Content, rec.TrackingID, rec.HostName)
	if _, err := s.w.Write(line); err != nil {
		return fmtErrorf("failed to write to console: %w", err)
	}
	return nil
}

// Suppressed returns the number of lines dropped by the rate limit since the last summary
func (s *ConsoleSink) Suppressed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suppressed
}

// Close marks the sink closed. The underlying writer is not closed.
func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true
	return nil
}
