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
	"time"

	"teamboard/internal/board"
	"teamboard/internal/config"
	"teamboard/internal/seed"
	"teamboard/internal/server"
	"teamboard/internal/storage/sqlite"
	"teamboard/internal/util"
)

func main() {
	configFlag := flag.String("config", util.EnvOrDefault("TEAMBOARD_CONFIG", "teamboard.toml"), "Path to TOML config file")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbFlag := flag.String("db", "", "Path to sqlite database file (overrides config)")
	staticFlag := flag.String("static", "", "Directory with built frontend (overrides config)")
	seedFlag := flag.String("seed", "", "YAML file with initial users (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("unable to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *staticFlag != "" {
		cfg.StaticDir = *staticFlag
	}
	if *seedFlag != "" {
		cfg.SeedFile = *seedFlag
	}

	store, err := sqlite.Open(cfg.DBPath, cfg.Notifications.RetentionDays, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SeedFile != "" {
		users, err := seed.Parse(cfg.SeedFile)
		if err != nil {
			logger.Error("unable to parse seed file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := seed.Apply(ctx, store, users, logger); err != nil {
			logger.Error("unable to seed users", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	coord := board.New(store, store, store, store, logger)
	srv := server.New(store, coord, logger, server.Options{
		StaticDir:  cfg.StaticDir,
		SessionTTL: cfg.SessionTTLDuration(),
	})
	srv.StartReminders(ctx, cfg.ReminderIntervalDuration(), cfg.ReminderWindowDuration())

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
