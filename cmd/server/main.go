package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-dealer-hub/internal/auth"
	"solar-dealer-hub/internal/config"
	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/handlers"
	"solar-dealer-hub/internal/realtime"
	"solar-dealer-hub/internal/server"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Server.LogFormat)
	slog.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start", "err", err)
		os.Exit(1)
	}

	auth.Configure(cfg.Server.JWTSecret, time.Duration(cfg.Server.JWTExpirationHours)*time.Hour)

	db, err := database.Connect(cfg.Database, !cfg.IsProduction())
	if err != nil {
		slog.Error("database unavailable", "err", err)
		os.Exit(1)
	}
	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		slog.Error("uploads directory", "dir", cfg.Uploads.Dir, "err", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(cfg.Server.AllowedOrigins)
	handlers.Configure(handlers.Options{
		UploadsDir:   cfg.Uploads.Dir,
		BaseURL:      cfg.Server.BaseURL,
		GeminiAPIKey: cfg.AI.GeminiAPIKey,
		GeminiModel:  cfg.AI.Model,
		Events:       hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.NewRouter(cfg, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "base_url", cfg.Server.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
