// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/enhance"
	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
)

// SubmitPost handles POST /posts. The composer form carries the draft; the
// pressed button picks enhance or publish. The draft is kept in the session
// so it survives the redirect back to the page.
func (h *Handler) SubmitPost(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUploadForm(w, r); err != nil {
		if isRequestTooLarge(err) {
			flashError(w, r, h.renderer, redirectRoot, model.MsgImageInvalid)
			return
		}
		flashError(w, r, h.renderer, redirectRoot, MsgInvalidForm)
		return
	}

	draft, err := h.draftFromForm(r)
	h.admin.SaveDraft(r.Context(), draft)
	if err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to read post image")
		return
	}

	switch r.PostFormValue("action") {
	case ActionEnhance:
		h.enhanceDraft(w, r, draft)
	case ActionPublish:
		h.publishDraft(w, r, draft)
	default:
		flashError(w, r, h.renderer, redirectRoot, MsgUnknownAction)
	}
}

// draftFromForm merges the submitted fields over the session draft. File
// inputs are not re-sent after a redirect, so an earlier image is kept
// unless a new file or URL is given. The returned draft is valid even when
// err reports a rejected image.
func (h *Handler) draftFromForm(r *http.Request) (model.Draft, error) {
	draft := h.admin.Draft(r.Context())
	draft.Title = r.PostFormValue("title")
	draft.Content = r.PostFormValue("content")
	draft.Category = r.PostFormValue("category")

	dataURI, uploaded, err := h.readImageUpload(r, "image")
	if err != nil {
		return draft, err
	}
	switch {
	case uploaded:
		draft.ImageURL = dataURI
	case strings.TrimSpace(r.PostFormValue("imageUrl")) != "":
		ref := strings.TrimSpace(r.PostFormValue("imageUrl"))
		if imaging.IsDataURI(ref) || imaging.ValidateRef(ref, h.images.MaxBytes()) != nil {
			return draft, &model.ValidationError{Field: "imageUrl", Message: model.MsgImageInvalid}
		}
		draft.ImageURL = ref
	case !imaging.IsDataURI(draft.ImageURL):
		// The URL field was cleared.
		draft.ImageURL = ""
	}
	return draft, nil
}

func (h *Handler) enhanceDraft(w http.ResponseWriter, r *http.Request, draft model.Draft) {
	draft = draft.Normalize()
	if err := draft.ValidateForEnhance(); err != nil {
		verr, _ := model.IsValidation(err)
		flashError(w, r, h.renderer, redirectRoot, verr.Message)
		return
	}

	result := h.enhancer.Enhance(r.Context(), draft.Title, draft.Content)
	if !result.Enhanced() {
		// The original content is kept; the failure is already logged.
		if errors.Is(result.Err, enhance.ErrNotConfigured) {
			h.renderer.SetFlash(r, MsgEnhanceDisabled, render.FlashInfo)
		}
		redirectRootPage(w, r)
		return
	}

	draft.Content = result.Text
	h.admin.SaveDraft(r.Context(), draft)
	redirectRootPage(w, r)
}

func (h *Handler) publishDraft(w http.ResponseWriter, r *http.Request, draft model.Draft) {
	post, err := draft.Publish(h.now(), h.locale.FormatDate)
	if err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to publish post")
		return
	}

	if err := h.posts.Add(r.Context(), post); err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to publish post", "category", logging.EventCategoryPost)
		return
	}

	h.admin.ClearDraft(r.Context())
	h.admin.Home(r.Context())
	slog.Info("post published", "category", logging.EventCategoryPost, "post_id", post.ID)
	redirectRootPage(w, r)
}

// ConfirmDelete handles GET /posts/{id}/delete and asks before deleting.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.posts.Get(chi.URLParam(r, "id"))
	if !ok {
		flashError(w, r, h.renderer, redirectRoot, MsgPostNotFound)
		return
	}

	data := h.pageData(r)
	data.Title = titleConfirmDelete
	data.Data = ConfirmDeleteData{Post: post}
	if err := h.renderer.Render(w, r, "confirm_delete", data); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "error", err)
	}
}

// DeletePost handles POST /posts/{id}/delete. Nothing changes unless the
// form confirms with confirm=yes.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectRoot, MsgInvalidForm)
		return
	}
	if r.PostFormValue("confirm") != "yes" {
		redirectRootPage(w, r)
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := h.posts.Get(id); !ok {
		redirectRootPage(w, r)
		return
	}
	if err := h.posts.Remove(r.Context(), id); err != nil {
		flashStoreError(w, r, h.renderer, err, "failed to delete post", "category", logging.EventCategoryPost, "post_id", id)
		return
	}

	slog.Info("post deleted", "category", logging.EventCategoryPost, "post_id", id)
	flashSuccess(w, r, h.renderer, redirectRoot, MsgPostDeleted)
}
