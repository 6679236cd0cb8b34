// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/folio/internal/model"
)

// Session keys.
const (
	keyAuth  = "admin_auth"
	keyView  = "admin_view"
	keyDraft = "post_draft"
)

// Admin reads and writes State in the request's session.
type Admin struct {
	sm *scs.SessionManager
}

// NewAdmin wraps a session manager.
func NewAdmin(sm *scs.SessionManager) *Admin {
	return &Admin{sm: sm}
}

// Manager returns the underlying session manager.
func (a *Admin) Manager() *scs.SessionManager {
	return a.sm
}

// State returns the normalized state for the current request.
func (a *Admin) State(ctx context.Context) State {
	return State{
		LoggedIn: a.sm.GetBool(ctx, keyAuth),
		View:     View(a.sm.GetString(ctx, keyView)),
	}.Normalize()
}

// IsLoggedIn reports whether the current session passed the passkey gate.
func (a *Admin) IsLoggedIn(ctx context.Context) bool {
	return a.sm.GetBool(ctx, keyAuth)
}

func (a *Admin) put(ctx context.Context, s State) {
	s = s.Normalize()
	a.sm.Put(ctx, keyAuth, s.LoggedIn)
	a.sm.Put(ctx, keyView, string(s.View))
}

// Login applies a passkey attempt and stores the result. The session token
// is renewed when the visitor becomes logged in.
func (a *Admin) Login(ctx context.Context, ok bool) (State, error) {
	cur := a.State(ctx)
	next := cur.Login(ok)
	if next.LoggedIn && !cur.LoggedIn {
		if err := a.sm.RenewToken(ctx); err != nil {
			return cur, fmt.Errorf("renewing session token: %w", err)
		}
	}
	a.put(ctx, next)
	return next, nil
}

// Logout ends the admin session and discards any unsent draft.
func (a *Admin) Logout(ctx context.Context) error {
	if err := a.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	a.sm.Remove(ctx, keyDraft)
	a.put(ctx, a.State(ctx).Logout())
	return nil
}

// Toggle flips the view. needLogin is true when the visitor is logged out.
func (a *Admin) Toggle(ctx context.Context) (State, bool) {
	next, needLogin := a.State(ctx).Toggle()
	a.put(ctx, next)
	return next, needLogin
}

// Home selects the Home view.
func (a *Admin) Home(ctx context.Context) State {
	next := a.State(ctx).Home()
	a.put(ctx, next)
	return next
}

// Draft returns the post being composed, if any.
func (a *Admin) Draft(ctx context.Context) model.Draft {
	var d model.Draft
	raw := a.sm.GetString(ctx, keyDraft)
	if raw == "" {
		return d
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return model.Draft{}
	}
	return d
}

// SaveDraft keeps the composer contents across redirects. Empty drafts are
// removed.
func (a *Admin) SaveDraft(ctx context.Context, d model.Draft) {
	if d.IsEmpty() {
		a.sm.Remove(ctx, keyDraft)
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	a.sm.Put(ctx, keyDraft, string(data))
}

// ClearDraft discards the composer contents.
func (a *Admin) ClearDraft(ctx context.Context) {
	a.sm.Remove(ctx, keyDraft)
}
