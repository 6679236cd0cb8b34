// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/backup"
	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/enhance"
	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/i18n"
	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/web"
)

const (
	// requestTimeoutMargin is added to the AI timeout so an enhance request
	// can finish and redirect before the request deadline.
	requestTimeoutMargin = 15 * time.Second
	loginCleanupInterval = 10 * time.Minute
	shutdownTimeout      = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server.

Environment Variables:
  FOLIO_SESSION_SECRET      Session encryption key (required, min 32 bytes)
  FOLIO_ADMIN_PASSKEY_HASH  Argon2id passkey hash (required, see "folio passkey hash")
  FOLIO_STORAGE             sqlite|redis|memory (default: sqlite)
  FOLIO_DB_PATH             SQLite database path (default: ./data/folio.db)
  FOLIO_REDIS_URL           Redis URL for redis storage
  FOLIO_AI_PROVIDER         gemini|openai (default: gemini)
  FOLIO_AI_API_KEY          Enables the AI enhance button
  FOLIO_BACKUP_SCHEDULE     Cron schedule for snapshots (optional)
  FOLIO_SERVER_PORT         Server port (default: 8080)
  FOLIO_ENV                 development|production (default: development)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmdContext(cmd))
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events := logging.NewEventLog(logging.DefaultEventLogSize)
	logger := setupLogger(os.Stdout, cfg.LogLevel, events)
	slog.Info("event log integration enabled", "min_level", "warn")

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("error closing storage", "error", err)
		}
	}()

	// Sessions share the SQLite database when there is one.
	sessionManager := session.New(a.db, cfg.IsDevelopment())
	slog.Info("session manager initialized", "persistent", a.db != nil)

	locale := i18n.NewLocale(cfg.Locale)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Locale:         locale,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}

	verifier, err := auth.NewVerifier(cfg.AdminPasskeyHash)
	if err != nil {
		return fmt.Errorf("loading passkey hash: %w", err)
	}

	enhancer, err := newEnhancer(ctx, cfg)
	if err != nil {
		return err
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go runLoginCleanup(cleanupCtx, loginProtection)

	if cfg.BackupsEnabled() {
		scheduler, err := backup.NewScheduler(backup.NewExporter(a.posts, a.profile, logger), backup.SchedulerOptions{
			Schedule: cfg.BackupSchedule,
			Dir:      cfg.BackupDir,
			Format:   cfg.BackupFormat,
			Keep:     cfg.BackupKeep,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("configuring backups: %w", err)
		}
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("starting backup scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	h := handler.New(handler.Config{
		Renderer:        renderer,
		Admin:           session.NewAdmin(sessionManager),
		Passkey:         verifier,
		LoginProtection: loginProtection,
		Posts:           a.posts,
		Profile:         a.profile,
		Enhancer:        enhancer,
		Images: imaging.NewProcessor(imaging.Options{
			MaxBytes:     cfg.MaxImageBytes,
			MaxDimension: cfg.ImageMaxDimension,
		}),
		Locale:      locale,
		Events:      events,
		Storage:     a.adapter,
		StorageName: cfg.Storage,
	})

	requestTimeout := max(handler.DefaultRequestTimeout, cfg.AITimeout+requestTimeoutMargin)
	router := handler.NewRouter(h, handler.RouterConfig{
		SessionManager: sessionManager,
		CSRF:           middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		Security:       middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		RequestTimeout: requestTimeout,
		Static:         staticFS,
		AccessLog:      cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      max(60*time.Second, requestTimeout+5*time.Second),
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage, "ai", cfg.AIEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newEnhancer builds the AI client. Without an API key the client reports
// itself unconfigured and every Enhance call returns the content unchanged.
func newEnhancer(ctx context.Context, cfg *config.Config) (*enhance.Client, error) {
	var provider enhance.Provider
	if cfg.AIEnabled() {
		p, err := enhance.NewProvider(ctx, cfg.AIProvider, cfg.AIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", cfg.AIProvider, err)
		}
		provider = p
	} else {
		slog.Info("AI enhancement disabled: FOLIO_AI_API_KEY is not set")
	}

	return enhance.NewClient(provider, enhance.Options{
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
		Logger:  slog.Default(),
	}), nil
}

func runLoginCleanup(ctx context.Context, lp *middleware.LoginProtection) {
	ticker := time.NewTicker(loginCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lp.Cleanup()
		}
	}
}
