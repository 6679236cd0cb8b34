// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
)

// Toggle handles POST /toggle. Logged-in visitors flip between Home and
// Admin; everyone else is shown the passkey prompt.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	if _, needLogin := h.admin.Toggle(r.Context()); needLogin {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	redirectRootPage(w, r)
}

// Home handles POST /home, the header logo.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.admin.Home(r.Context())
	redirectRootPage(w, r)
}

// Login handles POST /login. The LoginProtection middleware has already
// rejected throttled and locked-out clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, MsgInvalidForm)
		return
	}

	clientIP := middleware.ClientIP(r)
	ok := h.passkey != nil && h.passkey.Check(r.PostFormValue("passkey"))

	if !ok {
		slog.Warn("login failed: wrong passkey", "category", logging.EventCategoryAuth, "ip", clientIP)
		if locked, _ := h.loginProtection.RecordFailedAttempt(clientIP); locked {
			flashError(w, r, h.renderer, redirectRoot, middleware.MsgTooManyAttempts)
			return
		}
		flashError(w, r, h.renderer, redirectLogin, MsgWrongPasskey)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(clientIP)

	if _, err := h.admin.Login(r.Context(), true); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("admin logged in", "category", logging.EventCategoryAuth, "ip", clientIP)
	redirectRootPage(w, r)
}

// Logout handles POST /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Logout(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	slog.Info("admin logged out", "category", logging.EventCategoryAuth)
	redirectRootPage(w, r)
}
