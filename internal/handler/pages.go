// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"slices"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
)

// PostCard is one entry of the Home feed.
type PostCard struct {
	Post      model.Post
	CanDelete bool
}

// HomeData holds data for the Home view.
type HomeData struct {
	Cards []PostCard
}

// AdminData holds data for the Admin view.
type AdminData struct {
	Draft      model.Draft
	Categories []string
	Events     []logging.Event
	AIEnabled  bool
}

// ConfirmDeleteData holds data for the delete confirmation prompt.
type ConfirmDeleteData struct {
	Post model.Post
}

// Index handles GET / and renders the view selected in the session.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.admin.State(r.Context())

	data := h.pageData(r)
	data.ShowLogin = !state.LoggedIn && r.URL.Query().Get("login") == "1"

	if state.IsAdmin() {
		h.renderAdmin(w, r, data)
		return
	}
	h.renderHome(w, r, data)
}

// pageData fills the fields every page shares.
func (h *Handler) pageData(r *http.Request) render.TemplateData {
	state := h.admin.State(r.Context())
	return render.TemplateData{
		Profile:  h.profile.Get(),
		LoggedIn: state.LoggedIn,
		IsAdmin:  state.IsAdmin(),
	}
}

func (h *Handler) renderHome(w http.ResponseWriter, r *http.Request, data render.TemplateData) {
	posts := h.posts.List()
	cards := make([]PostCard, len(posts))
	for i, p := range posts {
		cards[i] = PostCard{Post: p, CanDelete: data.LoggedIn}
	}
	data.Data = HomeData{Cards: cards}

	if err := h.renderer.Render(w, r, "home", data); err != nil {
		logAndInternalError(w, "failed to render home view", "error", err)
	}
}

func (h *Handler) renderAdmin(w http.ResponseWriter, r *http.Request, data render.TemplateData) {
	draft := h.admin.Draft(r.Context())
	if draft.Category == "" {
		draft.Category = model.CategoryGeneral
	}

	data.Title = titleAdmin
	data.Data = AdminData{
		Draft:      draft,
		Categories: categoryOptions(draft.Category),
		Events:     h.events.Recent(recentEventsShown),
		AIEnabled:  h.enhancer.Configured(),
	}

	if err := h.renderer.Render(w, r, "admin", data); err != nil {
		logAndInternalError(w, "failed to render admin view", "error", err)
	}
}

// categoryOptions returns the default categories plus current when it is a
// legacy value outside them.
func categoryOptions(current string) []string {
	opts := slices.Clone(model.Categories)
	if current != "" && !slices.Contains(opts, current) {
		opts = append(opts, current)
	}
	return opts
}
