package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"randomframe/internal/logging"
	"randomframe/internal/server"
	"randomframe/pkg/utils"
)

func main() {
	configPath := flag.String("config", "randomframe.toml", "config file (optional)")
	addr := flag.String("addr", "", "listen address, overrides config")
	mode := flag.String("mode", "", "content mode: manifest, probe or drive")
	staticDir := flag.String("static", "", "directory served for unmatched paths")
	debug := flag.Bool("debug", false, "debug logging and gin debug mode")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		// logger is not up yet
		panic(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *mode != "" {
		cfg.Content.Mode = *mode
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}
	if *debug {
		cfg.Server.Debug = true
	}

	logger, err := logging.New(cfg.Server.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	srv, err := server.New(ctx, cfg, logger, server.Deps{})
	if err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("mode", cfg.Content.Mode))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
