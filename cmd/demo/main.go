// Command demo emits a fixed set of records through a logger built from flags or
// an optional TOML file, and prints where the output went.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/sinklog"
)

func main() {
	app := &cli.Command{
		Name:  "demo",
		Usage: "write sample records through every configured sink",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file with a [log] table; flags override its values",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "minimum level (debug, info, warn, error, fatal)",
				Value: "DEBUG",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "active log file location",
				Value: "logs/application.log",
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "rotation threshold in bytes",
				Value: 10485,
			},
			&cli.IntFlag{
				Name:  "backups",
				Usage: "compressed backups to keep",
				Value: 3,
			},
			&cli.StringFlag{
				Name:  "routing",
				Usage: "level to sink routing, e.g. debug:file,error:file+console",
				Value: sinklog.DefaultRouting,
			},
			&cli.IntFlag{
				Name:  "repeat",
				Usage: "number of login records to emit",
				Value: 10,
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := sinklog.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := sinklog.NewConfigFromFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	err := cfg.ApplyOverride(
		"ts_format=yyyy-MM-dd HH:mm:ss.SSS",
		"log_level="+cmd.String("level"),
		"file_location="+cmd.String("file"),
		fmt.Sprintf("max_file_size=%d", cmd.Int("max-size")),
		fmt.Sprintf("backup_count=%d", cmd.Int("backups")),
		"routing="+cmd.String("routing"),
	)
	if err != nil {
		return err
	}

	logger, err := sinklog.New(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	const userID, hostName = "demoUser", "host-01"
	trackingID := sinklog.NewTrackingID()
	meta := []sinklog.RecordOption{sinklog.WithTrackingID(trackingID), sinklog.WithHostName(hostName)}

	for i := 0; i < cmd.Int("repeat"); i++ {
		logger.Info(sinklog.NamespaceAuth, "User "+userID+" logged in", meta...)
	}
	logger.Debug(sinklog.NamespaceAuth, "Starting authentication flow for user "+userID, meta...)
	logger.Warn(sinklog.NamespaceCache, "Cache miss for user "+userID, meta...)
	logger.Error(sinklog.NamespaceDB, "Failed to load profile for "+userID, meta...)
	logger.Fatal(sinklog.NamespaceSystem, "OutOfMemoryError encountered!", meta...)
	logger.Logv(sinklog.LevelInfo, sinklog.NamespaceSystem, "effective config", *cfg)

	fmt.Printf("wrote records with tracking id %s to %s (backups %s-N.gz)\n",
		trackingID, cfg.FileLocation, cfg.FileLocation)
	return nil
}
