// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the single-page site: the Home and Admin views and
// the form actions that change them.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/folio/internal/enhance"
	"github.com/olegiv/folio/internal/i18n"
	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/internal/store"
)

// PasskeyChecker verifies the admin passkey.
type PasskeyChecker interface {
	Check(passkey string) bool
}

// Enhancer rewrites post content. *enhance.Client implements it.
type Enhancer interface {
	Enhance(ctx context.Context, title, content string) enhance.Result
	Configured() bool
}

// Pinger reports storage liveness for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the dependencies of a Handler.
type Config struct {
	Renderer        *render.Renderer
	Admin           *session.Admin
	Passkey         PasskeyChecker
	LoginProtection *middleware.LoginProtection
	Posts           *store.PostStore
	Profile         *store.ProfileStore
	Enhancer        Enhancer
	Images          *imaging.Processor
	Locale          *i18n.Locale
	Events          *logging.EventLog
	Storage         Pinger
	StorageName     string
	Now             func() time.Time
}

// Handler serves every route of the site.
type Handler struct {
	renderer        *render.Renderer
	admin           *session.Admin
	passkey         PasskeyChecker
	loginProtection *middleware.LoginProtection
	posts           *store.PostStore
	profile         *store.ProfileStore
	enhancer        Enhancer
	images          *imaging.Processor
	locale          *i18n.Locale
	events          *logging.EventLog
	storage         Pinger
	storageName     string
	now             func() time.Time
	startTime       time.Time
}

// New creates a Handler. Optional dependencies left nil get working defaults.
func New(cfg Config) *Handler {
	h := &Handler{
		renderer:        cfg.Renderer,
		admin:           cfg.Admin,
		passkey:         cfg.Passkey,
		loginProtection: cfg.LoginProtection,
		posts:           cfg.Posts,
		profile:         cfg.Profile,
		enhancer:        cfg.Enhancer,
		images:          cfg.Images,
		locale:          cfg.Locale,
		events:          cfg.Events,
		storage:         cfg.Storage,
		storageName:     cfg.StorageName,
		now:             cfg.Now,
	}
	if h.loginProtection == nil {
		h.loginProtection = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	if h.enhancer == nil {
		h.enhancer = enhance.NewClient(nil, enhance.Options{})
	}
	if h.images == nil {
		h.images = imaging.NewProcessor(imaging.Options{})
	}
	if h.locale == nil {
		h.locale = i18n.NewLocale(i18n.DefaultLocale)
	}
	if h.events == nil {
		h.events = logging.NewEventLog(logging.DefaultEventLogSize)
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.startTime = h.now()
	slog.Debug("handler initialized", "storage", h.storageName, "ai_configured", h.enhancer.Configured())
	return h
}
