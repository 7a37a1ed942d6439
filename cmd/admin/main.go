package main

import (
	"context"
	"flag"
	"os"

	"github.com/yigit/projectdesk/internal/bootstrap"
	"github.com/yigit/projectdesk/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		os.Exit(1)
	}

	// opening the store applies migrations for postgres and indexes for mongo
	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, lgr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open storage")
		os.Exit(1)
	}
	defer store.Close(ctx)

	cli := commandLine{
		users:         store.Users(),
		storage:       store.Name(),
		migrationsDir: cfg.Database.MigrationsDir,
		out:           os.Stdout,
	}
	if err := cli.run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		if err != errHelp {
			logger.Error().Err(err).Msg("Command failed")
		}
		store.Close(ctx)
		os.Exit(1)
	}
}
