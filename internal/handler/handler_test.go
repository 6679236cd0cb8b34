// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/enhance"
	"github.com/olegiv/folio/internal/i18n"
	"github.com/olegiv/folio/internal/kv"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/web"
)

const testPasskey = "correct horse battery staple"

var testAuthKey = []byte("12345678901234567890123456789012")

var (
	hashOnce sync.Once
	hashed   string
)

// testPasskeyHash hashes the test passkey once; argon2 is slow on purpose.
func testPasskeyHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.HashPasskey(testPasskey)
		if err != nil {
			t.Fatalf("HashPasskey: %v", err)
		}
		hashed = h
	})
	return hashed
}

// fakeEnhancer records calls and returns a fixed outcome.
type fakeEnhancer struct {
	mu         sync.Mutex
	text       string
	err        error
	configured bool
	calls      int
}

func (f *fakeEnhancer) Enhance(_ context.Context, _, content string) enhance.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if !f.configured {
		return enhance.Result{Text: content, Err: &enhance.EnhancementError{Err: enhance.ErrNotConfigured}}
	}
	if f.err != nil {
		return enhance.Result{Text: content, Err: &enhance.EnhancementError{Provider: "fake", Err: f.err}}
	}
	return enhance.Result{Text: f.text}
}

func (f *fakeEnhancer) Configured() bool { return f.configured }

// testEnv is a fully wired site backed by in-memory storage.
type testEnv struct {
	t        *testing.T
	router   http.Handler
	backend  *kv.MemoryBackend
	posts    *store.PostStore
	profile  *store.ProfileStore
	enhancer *fakeEnhancer
	events   *logging.EventLog
	lp       *middleware.LoginProtection
	cookies  map[string]*http.Cookie
	now      time.Time // handler clock; tests may move it forward
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	sm := session.New(nil, true)
	backend := kv.NewMemoryBackend()
	adapter := kv.NewAdapter(backend, kv.AdapterOptions{})
	posts := store.NewPostStore(ctx, adapter, store.Options{})
	profile := store.NewProfileStore(ctx, adapter, store.Options{})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm})
	require.NoError(t, err)

	verifier, err := auth.NewVerifier(testPasskeyHash(t))
	require.NoError(t, err)

	staticFS, err := fs.Sub(web.Static, "static")
	require.NoError(t, err)

	env := &testEnv{
		t:        t,
		backend:  backend,
		posts:    posts,
		profile:  profile,
		enhancer: &fakeEnhancer{configured: true, text: "সুন্দর করে লেখা"},
		events:   logging.NewEventLog(10),
		lp:       middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 1000, IPBurst: 1000, MaxFailedAttempts: 3}),
		cookies:  make(map[string]*http.Cookie),
		now:      time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC),
	}

	h := New(Config{
		Renderer:        renderer,
		Admin:           session.NewAdmin(sm),
		Passkey:         verifier,
		LoginProtection: env.lp,
		Posts:           posts,
		Profile:         profile,
		Enhancer:        env.enhancer,
		Locale:          i18n.NewLocale("bn-BD"),
		Events:          env.events,
		Storage:         adapter,
		StorageName:     "memory",
		Now:             func() time.Time { return env.now },
	})
	env.router = NewRouter(h, RouterConfig{
		SessionManager: sm,
		CSRF:           middleware.DefaultCSRFConfig(testAuthKey, true, ""),
		Security:       middleware.DefaultSecurityHeadersConfig(true),
		Static:         staticFS,
	})
	return env
}

// serve sends req with the stored cookies and keeps any cookies set.
func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		e.cookies[c.Name] = c
	}
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(req)
}

// postMultipart posts form fields plus an optional file in fileField.
func (e *testEnv) postMultipart(path string, form url.Values, fileField string, file []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, v := range values {
			require.NoError(e.t, mw.WriteField(key, v))
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "upload.png")
		require.NoError(e.t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(req)
}

// login enters the correct passkey.
func (e *testEnv) login() {
	e.t.Helper()
	rec := e.post(RouteLogin, url.Values{"passkey": {testPasskey}})
	require.Equal(e.t, http.StatusSeeOther, rec.Code)
	require.Equal(e.t, "/", rec.Header().Get("Location"))
}

// page follows up with GET / and returns the body.
func (e *testEnv) page() string {
	e.t.Helper()
	rec := e.get("/")
	require.Equal(e.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURI(t *testing.T) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 2, 2))
}

var errWriteFailed = errors.New("disk full")
