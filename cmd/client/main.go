// Package main runs the interactive ImpactMatch shell over the local data store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/atinyakov/ImpactMatch/internal/bootstrap"
	"github.com/atinyakov/ImpactMatch/internal/client"
	"github.com/atinyakov/ImpactMatch/internal/config"
	"github.com/atinyakov/ImpactMatch/internal/logger"
	"github.com/atinyakov/ImpactMatch/internal/service"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main opens the configured storage and starts the shell.
func main() {
	var showVer bool
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	options := config.Parse()

	if showVer {
		fmt.Printf("ImpactMatch Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := bootstrap.Open(ctx, options, log.Log)
	if err != nil {
		log.Log.Fatal("cannot open storage", zap.Error(err))
	}
	defer func() { _ = backend.Close(context.Background()) }()

	// Notifications are already printed; keep only errors in the log.
	store, err := bootstrap.NewStore(ctx, backend,
		service.WithLogger(log.Log.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))),
		service.WithNotifier(client.ToastPrinter(os.Stdout)),
	)
	if err != nil {
		log.Log.Fatal("cannot load data", zap.Error(err))
	}

	if err := bootstrap.StartReloading(ctx, backend, store, options.Watch, options.RefreshInterval, log.Log); err != nil {
		log.Log.Fatal("cannot start reloading", zap.Error(err))
	}

	if u, ok := store.CurrentUser(); ok {
		fmt.Printf("Logged in as %s\n", u.Name())
	}
	client.NewShell(store, os.Stdin, os.Stdout).Run(ctx)
}
