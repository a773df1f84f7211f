// Command stress hammers one logger from many goroutines with a small rotation
// threshold and then verifies that every record survived in the active file
// and its compressed backups.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/formatter"
)

var levels = []sinklog.Level{
	sinklog.LevelDebug,
	sinklog.LevelInfo,
	sinklog.LevelWarn,
	sinklog.LevelError,
}

var namespaces = []sinklog.Namespace{
	sinklog.NamespaceAuth,
	sinklog.NamespaceCache,
	sinklog.NamespaceDB,
	sinklog.NamespaceSystem,
}

func main() {
	app := &cli.Command{
		Name:  "stress",
		Usage: "concurrent writers against a rotating file sink",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent writers", Value: 64},
			&cli.IntFlag{Name: "records", Aliases: []string{"n"}, Usage: "records per writer", Value: 2000},
			&cli.IntFlag{Name: "max-message", Usage: "maximum random message size", Value: 512},
			&cli.IntFlag{Name: "max-size", Usage: "rotation threshold in bytes", Value: 256 * 1024},
			&cli.IntFlag{Name: "backups", Usage: "compressed backups to keep", Value: 1000},
			&cli.StringFlag{Name: "dir", Usage: "output directory, removed before the run", Value: "./stress_logs"},
			&cli.DurationFlag{Name: "timeout", Usage: "stop submitting after this long", Value: time.Minute},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "stress: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	_ = os.RemoveAll(dir)
	path := filepath.Join(dir, "stress.log")

	var rotationFailures atomic.Int64
	fileSink, err := sinklog.NewFileSink(path,
		sinklog.WithMaxFileSize(int64(cmd.Int("max-size"))),
		sinklog.WithBackupCount(cmd.Int("backups")),
		sinklog.WithDiagnostic(func(format string, args ...any) {
			rotationFailures.Add(1)
			fmt.Fprintf(os.Stderr, "\n"+format+"\n", args...)
		}),
	)
	if err != nil {
		return err
	}

	routes := make(map[sinklog.Level][]sinklog.Sink)
	for _, level := range sinklog.Levels {
		routes[level] = []sinklog.Sink{fileSink}
	}
	logger, err := sinklog.NewLogger(sinklog.LevelDebug, sinklog.NewDispatcher(routes))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers, perWorker := cmd.Int("workers"), cmd.Int("records")
	maxMessage := cmd.Int("max-message")
	fmt.Printf("--- sinklog stress: %d workers x %d records into %s ---\n", workers, perWorker, path)

	var written atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w) + time.Now().UnixNano()))
			for i := 0; i < perWorker; i++ {
				if ctx.Err() != nil {
					return
				}
				msg := fmt.Sprintf("w%d-r%d %s", w, i, randomMessage(rng, rng.Intn(maxMessage)+1))
				logger.Log(levels[rng.Intn(len(levels))], namespaces[rng.Intn(len(namespaces))], msg)
				written.Add(1)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := logger.Close(); err != nil {
		return err
	}

	stats := fileSink.Stats()
	fmt.Printf("wrote %d records in %v (%.0f records/s), %d rotations, %d rotation step failures\n",
		written.Load(), elapsed.Round(time.Millisecond), float64(written.Load())/elapsed.Seconds(),
		stats.Rotations, stats.RotationErrors)

	found, malformed, err := countRecords(path, cmd.Int("backups"))
	if err != nil {
		return err
	}
	fmt.Printf("found %d well-formed records, %d malformed lines\n", found, malformed)

	if malformed > 0 || (found != written.Load() && rotationFailures.Load() == 0) {
		return fmt.Errorf("expected %d records, found %d (%d malformed)", written.Load(), found, malformed)
	}
	return nil
}

func randomMessage(rng *rand.Rand, size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rng.Intn(len(chars))])
	}
	return sb.String()
}

// countRecords scans the active file and every backup
func countRecords(path string, backups int) (found, malformed int64, err error) {
	files := []string{path}
	for i := 1; i <= backups; i++ {
		files = append(files, sinklog.BackupPath(path, i))
	}

	for _, name := range files {
		f, m, err := countFile(name)
		if err != nil {
			return 0, 0, err
		}
		found += f
		malformed += m
	}
	return found, malformed, nil
}

func countFile(name string) (found, malformed int64, err error) {
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return 0, 0, fmt.Errorf("corrupt backup %s: %w", name, err)
		}
		defer zr.Close()
		r = zr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if _, err := formatter.Parse(scanner.Text()); err != nil {
			malformed++
			continue
		}
		found++
	}
	return found, malformed, scanner.Err()
}
