package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/monster-arena/internal/app"
	corecfg "github.com/aevon-lab/monster-arena/internal/core/config"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/aevon-lab/monster-arena/internal/server"
)

func main() {
	service := flag.String("service", "", "Service to run: auth, player, monster, summon or battle")
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger (replaced once the config is known)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if _, ok := corecfg.DefaultPorts[*service]; !ok {
		slog.Error("Unknown service", "service", *service)
		os.Exit(2)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config", "service", *service, "database", cfg.Database.Type, "token_store", cfg.Auth.TokenStore)

	metrics.InitMetrics(nil)

	// 2. Initialize Storage
	st, err := app.OpenStores(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// 3. Initialize Server and the service
	srv := server.New(server.Options{
		Addr:         cfg.Addr(*service),
		Mode:         cfg.Server.Mode,
		Service:      *service,
		MaxBodyBytes: int64(cfg.Server.MaxBodySizeMB) << 20,
		Checks:       st.Checks,
	})

	svc, err := app.Build(*service, cfg, st)
	if err != nil {
		slog.Error("Failed to initialize service", "service", *service, "error", err)
		os.Exit(1)
	}
	svc.Mount(srv.Engine, cfg.Services.APIKey)

	// 4. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	if svc.Processor != nil && cfg.Outbox.Enabled {
		scheduler := outbox.NewScheduler(*service, cfg.Outbox.Interval, svc.Processor)
		go func() {
			defer close(done)
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Outbox scheduler stopped with error", "error", err)
			}
		}()
	} else {
		close(done)
		if svc.Processor != nil {
			slog.Info("Outbox scheduler disabled by config; use POST /replay")
		}
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		cancel()
	}
	<-done

	slog.Info("Shutdown complete")
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
