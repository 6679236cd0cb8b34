// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// redirectRootPage sends the browser back to the single page.
func redirectRootPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
}

// flashStoreError reports a failed store call. Validation failures show their
// own message; anything else is logged and shown as a generic failure.
func flashStoreError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, err error, logMsg string, args ...any) {
	if verr, ok := model.IsValidation(err); ok {
		flashError(w, r, renderer, redirectRoot, verr.Message)
		return
	}
	slog.Error(logMsg, append(args, "error", err)...)
	flashError(w, r, renderer, redirectRoot, MsgSaveFailed)
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// isRequestTooLarge reports whether err came from an http.MaxBytesReader limit.
func isRequestTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
