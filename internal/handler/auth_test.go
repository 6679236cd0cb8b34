// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/middleware"
)

func TestIndex_HomeForVisitors(t *testing.T) {
	env := newTestEnv(t)

	body := env.page()
	assert.Contains(t, body, "আরিফুল ইসলাম এর পোর্টাল")
	assert.Contains(t, body, "সাম্প্রতিক আপডেট")
	assert.Contains(t, body, "এখনো কোনো পোস্ট নেই")
	assert.NotContains(t, body, `action="/login"`)
	assert.NotContains(t, body, "অ্যাডমিন ড্যাশবোর্ড")
}

func TestIndex_LoginPrompt(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/?login=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}

func TestToggle_LoggedOutAsksForPasskey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(RouteToggle, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?login=1", rec.Header().Get("Location"))

	assert.NotContains(t, env.page(), "অ্যাডমিন ড্যাশবোর্ড")
}

func TestLogin_WrongPasskey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(RouteLogin, url.Values{"passkey": {"wrong"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?login=1", rec.Header().Get("Location"))

	follow := env.get("/?login=1")
	body := follow.Body.String()
	assert.Contains(t, body, MsgWrongPasskey)
	assert.Contains(t, body, `action="/login"`)
	assert.NotContains(t, body, "অ্যাডমিন ড্যাশবোর্ড")
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	env.login()
	body := env.page()
	assert.Contains(t, body, "অ্যাডমিন ড্যাশবোর্ড")
	assert.Contains(t, body, "হোম দেখুন")
	assert.Contains(t, body, "লগ-আউট")
	assert.NotContains(t, body, `action="/login"`, "login prompt is hidden once logged in")

	// Already logged in: the prompt is not shown even when asked for.
	assert.NotContains(t, env.get("/?login=1").Body.String(), `action="/login"`)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		rec := env.post(RouteLogin, url.Values{"passkey": {"wrong"}})
		require.Equal(t, "/?login=1", rec.Header().Get("Location"))
	}

	rec := env.post(RouteLogin, url.Values{"passkey": {"wrong"}})
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, env.page(), middleware.MsgTooManyAttempts)

	// Locked out: even the right passkey is refused before it is checked.
	rec = env.post(RouteLogin, url.Values{"passkey": {testPasskey}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotContains(t, env.page(), "অ্যাডমিন ড্যাশবোর্ড")
}

func TestLogin_SuccessClearsFailures(t *testing.T) {
	env := newTestEnv(t)

	env.post(RouteLogin, url.Values{"passkey": {"wrong"}})
	env.post(RouteLogin, url.Values{"passkey": {"wrong"}})
	env.login()

	if locked, _ := env.lp.IsLocked("192.0.2.10"); locked {
		t.Fatal("client locked after successful login")
	}
}

func TestToggle_SwitchesViews(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.post(RouteToggle, nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	body := env.page()
	assert.Contains(t, body, "সাম্প্রতিক আপডেট")
	assert.Contains(t, body, "ড্যাশবোর্ড")
	assert.NotContains(t, body, "অ্যাডমিন ড্যাশবোর্ড")

	env.post(RouteToggle, nil)
	assert.Contains(t, env.page(), "অ্যাডমিন ড্যাশবোর্ড")
}

func TestHome_SelectsHomeView(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.post(RouteHome, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	body := env.page()
	assert.NotContains(t, body, "অ্যাডমিন ড্যাশবোর্ড")
	assert.Contains(t, body, "লগ-আউট", "still logged in")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.post(RouteLogout, nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := env.page()
	assert.NotContains(t, body, "লগ-আউট")
	assert.NotContains(t, body, "অ্যাডমিন ড্যাশবোর্ড")

	// Admin-only actions are gated again.
	rec = env.post(RouteProfile, url.Values{"name": {"x"}, "role": {"y"}})
	assert.Equal(t, "/?login=1", rec.Header().Get("Location"))
	assert.Equal(t, "আরিফুল ইসলাম", env.profile.Get().Name)
}

func TestAdminRoutes_RequireLogin(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, RouteLogout},
		{http.MethodPost, RouteProfile},
		{http.MethodPost, RoutePosts},
		{http.MethodGet, "/posts/p1/delete"},
		{http.MethodPost, "/posts/p1/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.method == http.MethodGet {
				rec = env.get(tt.path)
			} else {
				rec = env.post(tt.path, url.Values{"confirm": {"yes"}, "action": {ActionPublish}})
			}
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/?login=1", rec.Header().Get("Location"))
		})
	}
	assert.Equal(t, 0, env.posts.Len())
}
