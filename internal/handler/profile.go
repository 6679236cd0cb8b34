// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
)

// UpdateProfile handles POST /profile. The submitted form replaces the whole
// profile; the image is kept unless a new one is uploaded or removal is asked.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUploadForm(w, r); err != nil {
		if isRequestTooLarge(err) {
			flashError(w, r, h.renderer, redirectRoot, model.MsgImageInvalid)
			return
		}
		flashError(w, r, h.renderer, redirectRoot, MsgInvalidForm)
		return
	}

	current := h.profile.Get()
	next := model.Profile{
		Name:            r.PostFormValue("name"),
		Role:            r.PostFormValue("role"),
		Description:     r.PostFormValue("description"),
		ProfileImageURL: current.ProfileImageURL,
		FacebookURL:     r.PostFormValue("facebookUrl"),
		WhatsappURL:     r.PostFormValue("whatsappUrl"),
		Email:           r.PostFormValue("email"),
	}
	if r.PostFormValue("removeImage") == "yes" {
		next.ProfileImageURL = ""
	}

	dataURI, uploaded, err := h.readImageUpload(r, "profileImage")
	if err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to read profile image")
		return
	}
	if uploaded {
		next.ProfileImageURL = dataURI
	}

	if err := h.profile.Update(r.Context(), next); err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to save profile", "category", logging.EventCategoryProfile)
		return
	}

	slog.Info("profile updated", "category", logging.EventCategoryProfile, "image_uploaded", uploaded)
	flashSuccess(w, r, h.renderer, redirectRoot, MsgProfileSaved)
}
