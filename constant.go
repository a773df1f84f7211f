package sinklog

import (
	"time"
)

// Defaults
const (
	DefaultMaxFileSize     int64 = 2 * 1024 * 1024
	DefaultBackupCount     int64 = 3
	DefaultTimestampFormat       = "yyyy-MM-dd_HH-mm-ss"
	DefaultLogLevel              = LevelInfo

	DefaultBufferLocation  = "logs/hashmap_flush.log"
	DefaultBufferThreshold = 5
)

// File handling
const (
	// Upper bound on retained compressed backups
	maxBackupCount = 1024
	// Permissions for created directories and log files
	dirMode  = 0755
	fileMode = 0644
	// Suffix for partially written archives
	tmpSuffix = ".tmp"
	// Marker written after each buffered batch
	batchMarker = "--Batch flushed--"
)

// Timers
const (
	// Lower bound for the buffered sink flush interval
	minFlushInterval = 10 * time.Millisecond
)
