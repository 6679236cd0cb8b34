// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/folio/internal/middleware"
)

// DefaultRequestTimeout bounds every request unless configured otherwise.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	SessionManager *scs.SessionManager
	CSRF           middleware.CSRFConfig
	Security       middleware.SecurityHeadersConfig
	RequestTimeout time.Duration
	// Static serves /static/*; nil disables the route.
	Static fs.FS
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter registers every route of the site on a chi router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(cfg.Security))

	if cfg.Static != nil {
		static := http.StripPrefix("/static/", http.FileServerFS(cfg.Static))
		r.Get(RouteStatic, func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, req)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionManager.LoadAndSave)
		r.Use(middleware.CSRF(cfg.CSRF))

		r.Get(RouteHealth, h.Health)
		r.Get(RouteRoot, h.Index)
		r.Post(RouteToggle, h.Toggle)
		r.Post(RouteHome, h.Home)
		r.With(h.loginProtection.Middleware()).Post(RouteLogin, h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.admin))

			r.Post(RouteLogout, h.Logout)
			r.Post(RouteProfile, h.UpdateProfile)
			r.Post(RoutePosts, h.SubmitPost)
			r.Get(RoutePostDelete, h.ConfirmDelete)
			r.Post(RoutePostDelete, h.DeletePost)
		})
	})

	return r
}
