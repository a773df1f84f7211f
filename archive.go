package sinklog

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/sinklog/formatter"
)

// ArchiveSink writes lines through lumberjack, which renames full files to
// timestamped, gzip-compressed archives and prunes them by age and count
type ArchiveSink struct {
	mu        sync.Mutex
	lj        *lumberjack.Logger
	formatter *formatter.Formatter
	closed    bool
}

// NewArchiveSink creates an archive sink at path rotating every maxSizeMB megabytes
func NewArchiveSink(path string, maxSizeMB int, opts ...SinkOption) (*ArchiveSink, error) {
	if path == "" {
		return nil, fmtErrorf("archive sink needs an archive location: %w", ErrMissingOption)
	}
	if maxSizeMB < 1 {
		return nil, fmtErrorf("archive_max_size_mb must be at least 1, got %d", maxSizeMB)
	}
	o := applySinkOptions(opts)
	if o.backupCount < 0 {
		return nil, fmtErrorf("backup_count cannot be negative, got %d", o.backupCount)
	}
	if o.maxAgeDays < 0 {
		return nil, fmtErrorf("archive_max_age_days cannot be negative, got %d", o.maxAgeDays)
	}

	return &ArchiveSink{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: o.backupCount,
			MaxAge:     o.maxAgeDays,
			LocalTime:  true,
			Compress:   true,
		},
		formatter: formatter.New(o.pattern),
	}, nil
}

// Write formats rec and hands it to lumberjack
func (s *ArchiveSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	line := s.formatter.Line(rec.Timestamp, rec.Level.String(), rec.Namespace.String(),
		rec.Content, rec.TrackingID, rec.HostName)
	if _, err := s.lj.Write(line); err != nil {
		return fmtErrorf("failed to write archive log '%s': %w", s.lj.Filename, err)
	}
	return nil
}

// Rotate archives the current file immediately
func (s *ArchiveSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	return s.lj.Rotate()
}

// Close closes the current file
func (s *ArchiveSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true
	return s.lj.Close()
}
