// Command pinsetterd serves bowling lanes over HTTP.
//
// It exposes the lane REST API under /api/v1, streams scorecards over
// WebSocket at /ws/stream and serves Prometheus metrics at /metrics. Edits to
// the config file's log level take effect without a restart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pinsetter/pinsetter/internal/api"
	"github.com/pinsetter/pinsetter/internal/auth"
	"github.com/pinsetter/pinsetter/internal/config"
	"github.com/pinsetter/pinsetter/internal/logger"
	"github.com/pinsetter/pinsetter/internal/metrics"
	"github.com/pinsetter/pinsetter/internal/store"
	"github.com/pinsetter/pinsetter/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pinsetterd: failed to load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(os.Stdout, cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pinsetterd:", err)
		os.Exit(1)
	}
	slog.SetDefault(log.Logger)

	slog.Info("pinsetterd starting",
		"config", *configPath,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"lane_ttl", cfg.Server.LaneTTL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Only the log level is hot-reloaded; other settings need a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			level, err := logger.ParseLevel(updated.Log.Level)
			if err != nil {
				return
			}
			if level != log.Level() {
				log.SetLevel(level)
				slog.Info("log level changed", "level", level.String())
			}
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	st := store.New(cfg.Server.LaneTTL)
	go st.Run(ctx)

	hub := ws.New(st, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	router := api.New(st, api.Options{
		Recorder: metrics.NewRecorder(),
		Auth: auth.APIKey(
			cfg.Server.Auth.Mode,
			cfg.Server.Auth.EffectiveHeader(),
			cfg.Server.Auth.Key(),
		),
	})
	if cfg.Server.Auth.Mode == "apikey" && cfg.Server.Auth.Key() == "" {
		slog.Warn("auth mode is apikey but the key variable is empty; API is open",
			"key_env", cfg.Server.Auth.KeyEnv)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws/stream", hub)
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("pinsetterd shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown", "err", err)
	}
}
