package sinklog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/gzip"
)

// BackupPath returns the name of the i-th compressed backup of path
func BackupPath(path string, i int) string {
	return fmt.Sprintf("%s-%d.gz", path, i)
}

// rotate archives the active file into the backup chain and reopens it empty.
// Every step is best effort: failures are counted and reported through the
// diagnostic, and the remaining steps still run. Caller must hold s.mu.
func (s *FileSink) rotate() {
	s.state = stateRotating
	defer func() {
		if s.state == stateRotating {
			s.state = stateOpen
		}
	}()

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.rotationFailed("failed to close log file '%s' before rotation: %v", s.path, err)
		}
		s.file = nil
	}

	archived := s.backupCount == 0
	if s.backupCount > 0 {
		archived = s.archive()
	}

	// Content that did not reach path-1.gz stays in the active file
	if archived {
		if err := s.ops.truncate(s.path, 0); err != nil {
			s.rotationFailed("failed to truncate log file '%s': %v", s.path, err)
		}
	}

	if err := s.reopen(); err != nil {
		s.rotationFailed("failed to reopen log file after rotation: %v", err)
	}
	s.rotations.Add(1)
}

// archive compresses the active file and publishes it as path-1.gz after
// shifting the existing backups. The compressed copy is staged next to its
// final name so a compression failure leaves the chain untouched.
func (s *FileSink) archive() bool {
	newest := BackupPath(s.path, 1)
	staged := newest + tmpSuffix

	if err := s.ops.compress(s.path, staged); err != nil {
		s.rotationFailed("failed to compress log file '%s', keeping it uncompressed: %v", s.path, err)
		return false
	}

	s.dropOldest()
	s.shiftBackups()

	if err := s.ops.rename(staged, newest); err != nil {
		s.rotationFailed("failed to publish backup '%s': %v", newest, err)
		_ = s.ops.remove(staged)
		return false
	}
	return true
}

// dropOldest deletes path-N.gz; a missing file is not an error
func (s *FileSink) dropOldest() {
	oldest := BackupPath(s.path, s.backupCount)
	if err := s.ops.remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.rotationFailed("failed to delete oldest backup '%s': %v", oldest, err)
	}
}

// shiftBackups renames path-i.gz to path-(i+1).gz from the oldest down so no
// backup is overwritten before it has moved
func (s *FileSink) shiftBackups() {
	for i := s.backupCount - 1; i >= 1; i-- {
		src := BackupPath(s.path, i)
		if _, err := s.ops.stat(src); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.rotationFailed("failed to stat backup '%s': %v", src, err)
			}
			continue
		}
		dst := BackupPath(s.path, i+1)
		if err := s.ops.rename(src, dst); err != nil {
			s.rotationFailed("failed to rename backup '%s' to '%s': %v", src, dst, err)
		}
	}
}

func (s *FileSink) rotationFailed(format string, args ...any) {
	s.rotationErrors.Add(1)
	s.diag(format, args...)
}

// compressFile writes a gzip copy of src to dst, removing dst on failure
func compressFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	gz := gzip.NewWriter(out)
	if _, err = io.Copy(gz, in); err != nil {
		return err
	}
	if err = gz.Close(); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	return out.Close()
}
