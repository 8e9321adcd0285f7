// Package main initializes and starts the ImpactMatch API server,
// setting up configuration, logging, the storage backend, the store,
// metrics, handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/ImpactMatch/internal/bootstrap"
	"github.com/atinyakov/ImpactMatch/internal/config"
	"github.com/atinyakov/ImpactMatch/internal/logger"
	"github.com/atinyakov/ImpactMatch/internal/metrics"
	"github.com/atinyakov/ImpactMatch/internal/server/handler/http"
	"github.com/atinyakov/ImpactMatch/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the configured storage backend.
	backend, err := bootstrap.Open(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("storage", options.Storage), zap.Error(err))
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	// Metrics registry shared by the store and the HTTP layer.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	store, err := bootstrap.NewStore(ctx, backend,
		service.WithLogger(zapLogger),
		service.WithRecorder(collector),
	)
	if err != nil {
		zapLogger.Fatal("cannot load data", zap.Error(err))
	}

	// Pick up writes made by other processes.
	if err := bootstrap.StartReloading(ctx, backend, store, options.Watch, options.RefreshInterval, zapLogger); err != nil {
		zapLogger.Fatal("cannot start reloading", zap.Error(err))
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:         &http.AuthHandler{AuthService: store},
		Projects:     &http.ProjectHandler{ProjectService: store},
		Applications: &http.ApplicationHandler{ApplicationService: store},
		Metrics:      metrics.Handler(reg),
		Recorder:     collector,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Addr), zap.String("storage", backend.Kind))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr), zap.String("storage", backend.Kind))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
