package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/acadex/internal/buildinfo"
	"github.com/dmitrijs2005/acadex/internal/client/cli"
	"github.com/dmitrijs2005/acadex/internal/client/config"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/dmitrijs2005/acadex/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	cfg.CurrentVersion = buildinfo.CurrentVersion(cfg.CurrentVersion)

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.NewServeMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "metrics server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	app, err := cli.NewApp(ctx, cfg, logger, collector)
	if err != nil {
		log.Fatalf("%v", err)
	}

	defer app.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(ctx)
	}()

	// A blocked stdin read does not observe ctx, so an interrupt ends the
	// process from here.
	select {
	case <-done:
	case <-ctx.Done():
		logger.Info(context.Background(), "interrupted, shutting down")
	}

}

func initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
