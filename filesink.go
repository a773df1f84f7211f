package sinklog

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/sinklog/formatter"
)

type sinkState uint8

const (
	stateOpen sinkState = iota
	stateRotating
	stateClosed
)

// fileOps holds the filesystem calls used by the file sink
type fileOps struct {
	open     func(path string) (*os.File, error)
	remove   func(path string) error
	rename   func(oldPath, newPath string) error
	stat     func(path string) (os.FileInfo, error)
	truncate func(path string, size int64) error
	compress func(src, dst string) error
}

func defaultFileOps() fileOps {
	return fileOps{
		open:     openLogFile,
		remove:   os.Remove,
		rename:   os.Rename,
		stat:     os.Stat,
		truncate: os.Truncate,
		compress: compressFile,
	}
}

// FileSinkStats reports counters of a FileSink
type FileSinkStats struct {
	Rotations      uint64
	RotationErrors uint64
	WriteFailures  uint64
	Size           int64
}

// FileSink appends formatted lines to a file and rotates it into a chain of
// gzip backups (path-1.gz newest .. path-N.gz oldest) once it reaches the size limit.
// Writes and rotation are serialized by one mutex.
type FileSink struct {
	mu          sync.Mutex
	path        string
	maxSize     int64
	backupCount int
	syncOnWrite bool
	formatter   *formatter.Formatter
	file        *os.File
	size        int64
	state       sinkState
	diag        Diagnostic
	ops         fileOps

	rotations      atomic.Uint64
	rotationErrors atomic.Uint64
	writeFailures  atomic.Uint64
}

// NewFileSink opens (creating if needed) the file at path in append mode
func NewFileSink(path string, opts ...SinkOption) (*FileSink, error) {
	o := applySinkOptions(opts)
	return newFileSink(path, o, defaultFileOps())
}

func newFileSink(path string, o sinkOptions, ops fileOps) (*FileSink, error) {
	if path == "" {
		return nil, fmtErrorf("file sink needs a file location: %w", ErrMissingOption)
	}
	if o.maxFileSize <= 0 {
		return nil, fmtErrorf("max_file_size must be positive, got %d", o.maxFileSize)
	}
	if o.backupCount < 0 || o.backupCount > maxBackupCount {
		return nil, fmtErrorf("backup_count must be between 0 and %d, got %d", maxBackupCount, o.backupCount)
	}

	s := &FileSink{
		path:        path,
		maxSize:     o.maxFileSize,
		backupCount: o.backupCount,
		syncOnWrite: o.syncOnWrite,
		formatter:   formatter.New(o.pattern),
		diag:        diagnosticOrDefault(o.diag),
		ops:         ops,
	}
	if err := s.reopen(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write formats rec as one line, appends it and rotates when the file reached the limit
func (s *FileSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return ErrSinkClosed
	}
	// A failed reopen after rotation is retried here
	if s.file == nil {
		if err := s.reopen(); err != nil {
			s.writeFailures.Add(1)
			return err
		}
	}

	line := s.formatter.Line(rec.Timestamp, rec.Level.String(), rec.Namespace.String(),
		rec.Content, rec.TrackingID, rec.HostName)
	n, err := s.file.Write(line)
	s.size += int64(n)
	if err != nil {
		s.writeFailures.Add(1)
		return fmtErrorf("failed to write to log file '%s': %w", s.path, err)
	}

	if s.syncOnWrite {
		if err := s.file.Sync(); err != nil {
			s.diag("failed to sync log file '%s': %v", s.path, err)
		}
	}

	if s.currentSize() >= s.maxSize {
		s.rotate()
	}
	return nil
}

// Rotate forces a rotation regardless of the current size
func (s *FileSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return ErrSinkClosed
	}
	s.rotate()
	return nil
}

// Close syncs and closes the file. A second call returns ErrSinkClosed.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return ErrSinkClosed
	}
	s.state = stateClosed
	if s.file == nil {
		return nil
	}

	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync log file '%s' during close: %w", s.path, syncErr)
	}
	if closeErr := s.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", s.path, closeErr))
	}
	s.file = nil
	return err
}

// Path returns the active file location
func (s *FileSink) Path() string {
	return s.path
}

// Stats returns a snapshot of the sink counters
func (s *FileSink) Stats() FileSinkStats {
	s.mu.Lock()
	size := s.size
	s.mu.Unlock()

	return FileSinkStats{
		Rotations:      s.rotations.Load(),
		RotationErrors: s.rotationErrors.Load(),
		WriteFailures:  s.writeFailures.Load(),
		Size:           size,
	}
}

// currentSize refreshes the tracked size from the open file
func (s *FileSink) currentSize() int64 {
	if fi, err := s.file.Stat(); err == nil {
		s.size = fi.Size()
	}
	return s.size
}

func (s *FileSink) reopen() error {
	f, err := s.ops.open(s.path)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", s.path, err)
	}
	s.file = f
	s.size = 0
	if fi, err := f.Stat(); err == nil {
		s.size = fi.Size()
	}
	return nil
}

// openLogFile creates the parent directory and opens path for appending
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
}
