// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

// View selects which page variant is rendered at /.
type View string

const (
	ViewHome  View = "home"
	ViewAdmin View = "admin"
)

// State is the admin gate: whether the visitor has entered the passkey and
// which view they are looking at. The zero value is logged out on Home.
type State struct {
	LoggedIn bool
	View     View
}

// Login applies a passkey attempt. A correct passkey logs in and opens the
// admin view; a wrong one changes nothing. Already logged-in states are kept.
func (s State) Login(ok bool) State {
	if s.LoggedIn || !ok {
		return s.Normalize()
	}
	return State{LoggedIn: true, View: ViewAdmin}
}

// Logout returns to the logged-out Home view.
func (s State) Logout() State {
	return State{LoggedIn: false, View: ViewHome}
}

// Toggle switches between Home and Admin when logged in. When logged out the
// state is kept and needLogin is true so the caller can show the prompt.
func (s State) Toggle() (next State, needLogin bool) {
	if !s.LoggedIn {
		return s.Normalize(), true
	}
	if s.View == ViewAdmin {
		s.View = ViewHome
	} else {
		s.View = ViewAdmin
	}
	return s, false
}

// Home selects the Home view.
func (s State) Home() State {
	s.View = ViewHome
	return s
}

// Normalize forces Home while logged out and fills an empty view.
func (s State) Normalize() State {
	if !s.LoggedIn || s.View != ViewAdmin {
		s.View = ViewHome
	}
	return s
}

// IsAdmin reports whether the admin view should be rendered.
func (s State) IsAdmin() bool {
	return s.LoggedIn && s.View == ViewAdmin
}
