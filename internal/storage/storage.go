// Package storage opens the core.Store selected by the database URL.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/classcheck/internal/config"
	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/storage/postgres"
	"github.com/JonMunkholm/classcheck/internal/storage/sqlite"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Resolve maps a database URL onto a backend and the DSN its driver takes.
// "sqlite:" is stripped; "file:" URIs are passed to SQLite unchanged.
func Resolve(url string) (Backend, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres, url, nil
	case strings.HasPrefix(url, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite:"), "//")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", url)
		}
		return BackendSQLite, path, nil
	case strings.HasPrefix(url, "file:"):
		return BackendSQLite, url, nil
	}
	return "", "", fmt.Errorf("unsupported database url scheme")
}

// Open connects to the configured database and returns its store.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
	backend, dsn, err := Resolve(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		s, err := postgres.Open(ctx, dsn, postgres.PoolOptions{
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
