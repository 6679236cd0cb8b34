// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// LoginChecker reports whether the request's session passed the passkey gate.
type LoginChecker interface {
	IsLoggedIn(ctx context.Context) bool
}

// RequireAdmin rejects requests from sessions that have not entered the
// passkey. Browsers are sent to the login prompt on the single page.
func RequireAdmin(checker LoginChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.IsLoggedIn(r.Context()) {
				slog.Info("admin action without login", "method", r.Method, "path", r.URL.Path)
				http.Redirect(w, r, "/?login=1", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
