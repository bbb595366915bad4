package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"ptacheck/internal/platform/config"
	"ptacheck/internal/platform/httpserver"
	"ptacheck/internal/platform/logger"
)

// main loads configuration, wires the verification stack, and serves HTTP
// until SIGINT or SIGTERM.
func main() {
	configPath := flag.String("config", os.Getenv("PTACHECK_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.Server.LogFormat, cfg.Server.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting ptacheck", "addr", cfg.Server.Addr, "headless", cfg.Verification.Headless)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
