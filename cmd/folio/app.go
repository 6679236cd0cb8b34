// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/kv"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/store"
)

// loadConfig reads .env (if present) and the FOLIO_* environment.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogger installs a text logger on w at the configured level. With an
// event log, WARN and ERROR records are also kept for the admin dashboard.
func setupLogger(w io.Writer, level string, events *logging.EventLog) *slog.Logger {
	var h slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: logging.ParseLevel(level)})
	if events != nil {
		h = logging.NewEventLogHandler(h, events)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// app is the storage layer shared by every command: the selected backend,
// the adapter over it and the two record stores.
type app struct {
	cfg     *config.Config
	db      *sql.DB // set for sqlite storage only
	backend kv.Backend
	adapter *kv.Adapter
	posts   *store.PostStore
	profile *store.ProfileStore
}

func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg}

	switch cfg.Storage {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0750); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		logger.Info("initializing database", "path", cfg.DBPath)
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("initializing database: %w", err)
		}
		a.db = db
		a.backend = kv.NewSQLiteBackend(db)
	case config.StorageRedis:
		opts := kv.DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			opts.Prefix = cfg.RedisPrefix
		}
		backend, err := kv.NewRedisBackend(opts)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.backend = backend
	case config.StorageMemory:
		a.backend = kv.NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	a.adapter = kv.NewAdapter(a.backend, kv.AdapterOptions{
		Logger:         logger,
		MaxRecordBytes: cfg.MaxRecordBytes,
	})
	storeOpts := store.Options{Logger: logger, MaxImageBytes: cfg.MaxImageBytes}
	a.posts = store.NewPostStore(ctx, a.adapter, storeOpts)
	a.profile = store.NewProfileStore(ctx, a.adapter, storeOpts)

	logger.Info("storage ready", "backend", cfg.Storage, "posts", a.posts.Len())
	return a, nil
}

// Close releases the backend and the database handle.
func (a *app) Close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
