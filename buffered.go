package sinklog

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/sinklog/formatter"
)

// BufferedSink keeps records in an index-keyed buffer and appends them to a file
// as one batch once the threshold is reached
type BufferedSink struct {
	mu        sync.Mutex
	path      string
	threshold int
	formatter *formatter.Formatter
	buffer    map[int]string
	index     int
	closed    bool
	diag      Diagnostic

	stop chan struct{}
	done chan struct{}
}

// NewBufferedSink creates a buffered sink flushing to path
func NewBufferedSink(path string, opts ...SinkOption) (*BufferedSink, error) {
	if path == "" {
		path = DefaultBufferLocation
	}
	o := applySinkOptions(opts)
	if o.threshold < 1 {
		return nil, fmtErrorf("buffer_flush_threshold must be at least 1, got %d", o.threshold)
	}
	if o.flushInterval < 0 {
		return nil, fmtErrorf("buffer_flush_interval cannot be negative, got %s", o.flushInterval)
	}

	s := &BufferedSink{
		path:      path,
		threshold: o.threshold,
		formatter: formatter.New(o.pattern),
		buffer:    make(map[int]string, o.threshold),
		diag:      diagnosticOrDefault(o.diag),
	}

	if o.flushInterval > 0 {
		interval := o.flushInterval
		if interval < minFlushInterval {
			interval = minFlushInterval
		}
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.flushLoop(interval)
	}
	return s, nil
}

// Write buffers rec and flushes when the buffer reaches the threshold
func (s *BufferedSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.buffer[s.index] = s.formatter.Entry(rec.Timestamp, rec.Level.String(), rec.Content)
	s.index++

	if len(s.buffer) >= s.threshold {
		return s.flush()
	}
	return nil
}

// Flush writes out whatever is buffered
func (s *BufferedSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	return s.flush()
}

// Len returns the number of buffered entries
func (s *BufferedSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// Close stops the flush timer and flushes the remaining entries
func (s *BufferedSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.closed = true
	err := s.flush()
	s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	return err
}

// flush appends "index = line" rows and the batch marker, then resets the buffer.
// The batch is dropped even if the write fails. Caller must hold s.mu.
func (s *BufferedSink) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}

	keys := make([]int, 0, len(s.buffer))
	for k := range s.buffer {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var batch bytes.Buffer
	for _, k := range keys {
		batch.WriteString(itoa(k))
		batch.WriteString(" = ")
		batch.WriteString(s.buffer[k])
		batch.WriteByte('\n')
	}
	batch.WriteString(batchMarker)
	batch.WriteByte('\n')

	clear(s.buffer)
	s.index = 0

	f, err := openLogFile(s.path)
	if err != nil {
		return fmtErrorf("failed to open buffer file '%s': %w", s.path, err)
	}
	_, err = f.Write(batch.Bytes())
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmtErrorf("failed to flush buffer to '%s': %w", s.path, err)
	}
	return nil
}

func (s *BufferedSink) flushLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.closed {
				if err := s.flush(); err != nil {
					s.diag("periodic flush failed: %v", err)
				}
			}
			s.mu.Unlock()
		}
	}
}
