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

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/classcheck/internal/config"
	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
	"github.com/JonMunkholm/classcheck/internal/storage"
	"github.com/JonMunkholm/classcheck/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"import_encoding", cfg.Import.Encoding,
	)

	backend, _, err := storage.Resolve(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database", "backend", backend)

	limiter := core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)
	service := core.NewService(store, limiter, cfg.Import.Options())
	server := web.NewServer(service, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, server, limiter, cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server failed", "error", err)
		stop()
		store.Close()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// httpServer is the part of web.Server that run drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// run serves until ctx is cancelled, then lets running imports finish and
// shuts the server down. It returns only after in-flight requests have
// drained, so callers may close the store afterwards.
func run(ctx context.Context, server httpServer, limiter *core.ImportLimiter, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Let running imports finish so no file is cut off mid-row.
	if active := limiter.Active(); active > 0 {
		slog.Info("waiting for imports to complete", "active", active)
		if err := limiter.Drain(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		} else {
			slog.Info("all imports completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
