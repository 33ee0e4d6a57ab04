package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pengaduan/internal/buildinfo"
	"github.com/dmitrijs2005/pengaduan/internal/client/cli"
	"github.com/dmitrijs2005/pengaduan/internal/client/config"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "error starting client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
