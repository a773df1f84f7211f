package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lixenwraith/sinklog"
)

const logDirectory = "./temp_logs"

// alertSink keeps error and fatal records in memory, standing in for a pager
// or an external collector
type alertSink struct {
	mu     sync.Mutex
	alerts []string
}

func (s *alertSink) Write(rec sinklog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, fmt.Sprintf("[%s] %s: %s", rec.Level, rec.Namespace, rec.Content))
	return nil
}

func (s *alertSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("  alert sink closing with %d alerts\n", len(s.alerts))
	for _, a := range s.alerts {
		fmt.Println("   ", a)
	}
	return nil
}

func main() {
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- sinklog sink scenarios ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	runScenario("1: File only", sinklog.NewBuilder().
		FileLocation(filepath.Join(logDirectory, "file_only.log")).
		Routing("debug:file,info:file,warn:file,error:file,fatal:file"))

	runScenario("2: Stderr only", sinklog.NewBuilder().
		ConsoleTarget("stderr").
		Routing("debug:console,info:console,warn:console,error:console,fatal:console"))

	runScenario("3: Buffered batches", sinklog.NewBuilder().
		BufferLocation(filepath.Join(logDirectory, "batches.txt")).
		BufferFlushThreshold(3).
		Routing("info:buffer,warn:buffer,error:buffer"))

	runScenario("4: Archive with lumberjack", sinklog.NewBuilder().
		ArchiveLocation(filepath.Join(logDirectory, "archive.log")).
		Routing("warn:archive,error:archive,fatal:archive"))

	runScenario("5: Custom alert sink next to the file", sinklog.NewBuilder().
		FileLocation(filepath.Join(logDirectory, "alerts.log")).
		Sink(sinklog.LevelError, &alertSink{}).
		Sink(sinklog.LevelFatal, &alertSink{}))

	fmt.Println("\n--- scenarios complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

func runScenario(name string, b *sinklog.Builder) {
	fmt.Printf("\n[Scenario %s]\n", name)

	logger, err := b.Build()
	if err != nil {
		fmt.Printf("  ERROR: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  routed levels: %s\n", joinLevels(logger.Dispatcher().Levels()))

	logger.Debug(sinklog.NamespaceSystem, "debug message")
	logger.Info(sinklog.NamespaceAuth, "user logged in", sinklog.WithTrackingID(sinklog.NewTrackingID()))
	logger.Warn(sinklog.NamespaceCache, "cache miss")
	logger.Error(sinklog.NamespaceDB, "query failed", sinklog.WithHostName("db-02"))
	logger.Fatal(sinklog.NamespaceSystem, "out of memory")

	if err := logger.Close(); err != nil {
		fmt.Printf("  WARNING: close error in scenario '%s': %v\n", name, err)
	}
}

func joinLevels(levels []sinklog.Level) string {
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ",")
}
