// Command bfs manages attributes and blobs kept in a single store file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/bfs/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bfs/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/bfs/internal/adapters/driving/cli"
	"github.com/custodia-labs/bfs/internal/core/services"
	"github.com/custodia-labs/bfs/internal/logger"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetSetup(setup)

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads the config file and wires the services.
func setup(opts cli.Options) error {
	cfg, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return err
	}

	settingsService := services.NewSettingsService(cfg)
	settings := settingsService.Get()
	logger.SetVerbose(opts.Verbose || settings.Verbose)
	logger.Debug("config %s: threads=%d busy_timeout=%s batch_size=%d",
		cfg.Path(), settings.Threads, settings.BusyTimeout, settings.BatchSize)

	factory := sqlite.NewFactory(sqlite.Options{
		BusyTimeout: settings.BusyTimeout,
		BatchSize:   settings.BatchSize,
	})
	cli.SetServices(
		services.NewFileService(factory),
		services.NewArchiveService(factory, settings.Threads),
		services.NewWatchService(factory),
	)
	cli.SetSettingsService(settingsService)
	return nil
}
