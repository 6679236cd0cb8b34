// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/i18n"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":   {Data: []byte(`{{define "base"}}<html lang="{{.Lang}}">{{template "flash" .}}{{template "content" .}}<footer>{{digits .CurrentYear}}</footer></html>{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="flash-{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`)},
		"pages/home.html":     {Data: []byte(`{{define "content"}}<h1>{{.Profile.Name}}</h1>{{end}}`)},
		"pages/other.html":    {Data: []byte(`{{define "content"}}<p>{{.Data}}</p>{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, fsys fs.FS, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: fsys, SessionManager: sm, Locale: i18n.NewLocale("bn-BD")})
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestNew_NoPages(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html":   {Data: []byte(`{{define "base"}}{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{end}}`)},
		"pages/readme.txt":    {Data: []byte(`not a template`)},
	}
	_, err := New(Config{TemplatesFS: fsys})
	assert.Error(t, err)
}

func TestNew_ParseError(t *testing.T) {
	fsys := testFS()
	fsys["pages/broken.html"] = &fstest.MapFile{Data: []byte(`{{define "content"}}{{.Unclosed{{end}}`)}
	_, err := New(Config{TemplatesFS: fsys})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, testFS(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(w, req, "home", TemplateData{Profile: model.DefaultProfile()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<h1>আরিফুল ইসলাম</h1>")
	assert.Contains(t, body, `lang="bn-BD"`)
	assert.Contains(t, body, "<footer>২০২৬</footer>")
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t, testFS(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.RenderStatus(w, req, http.StatusNotFound, "other", TemplateData{Data: "missing"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<p>missing</p>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, testFS(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(w, req, "nope", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}

func TestRender_FlashIsPoppedOnce(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, testFS(), sm)

	var bodies []string
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("set") == "1" {
			r.SetFlash(req, "সফল", FlashSuccess)
		}
		if err := r.Render(w, req, "home", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
	}))

	var cookie *http.Cookie
	for _, target := range []string{"/?set=1", "/"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		h.ServeHTTP(w, req)
		for _, c := range w.Result().Cookies() {
			if c.Name == sm.Cookie.Name {
				cookie = c
			}
		}
		bodies = append(bodies, w.Body.String())
	}

	assert.Contains(t, bodies[0], `<div class="flash-success">সফল</div>`)
	assert.NotContains(t, bodies[1], "সফল")
}

func TestRender_FlashTypeDefaultsToInfo(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, testFS(), sm)

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sm.Put(req.Context(), "flash", "note")
		_ = r.Render(w, req, "home", TemplateData{})
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), `<div class="flash-info">note</div>`)
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "emphasis",
			input: "**গুরুত্বপূর্ণ** কথা",
			want:  []string{"<strong>গুরুত্বপূর্ণ</strong>"},
		},
		{
			name:  "hard wraps",
			input: "প্রথম লাইন\nদ্বিতীয় লাইন",
			want:  []string{"<br"},
		},
		{
			name:    "script stripped",
			input:   "hello <script>alert(1)</script>",
			notWant: []string{"<script", "alert(1)</script>"},
		},
		{
			name:    "javascript link stripped",
			input:   "[click](javascript:alert(1))",
			notWant: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.input))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, got, nw)
			}
		})
	}
}

// Page data shapes mirror the handler package; templates only see field names.
type testCard struct {
	Post      model.Post
	CanDelete bool
}

type testHomeData struct {
	Cards []testCard
}

type testAdminData struct {
	Draft      model.Draft
	Categories []string
	Events     []logging.Event
	AIEnabled  bool
}

type testConfirmData struct {
	Post model.Post
}

const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func webRenderer(t *testing.T) *Renderer {
	t.Helper()
	sub, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	return newTestRenderer(t, sub, nil)
}

func renderBody(t *testing.T, r *Renderer, name string, data TemplateData) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, r.Render(w, req, name, data))
	return w.Body.String()
}

func TestWebTemplates_HomeEmpty(t *testing.T) {
	r := webRenderer(t)
	body := renderBody(t, r, "home", TemplateData{
		Profile: model.DefaultProfile(),
		Data:    testHomeData{},
	})

	assert.Contains(t, body, "আরিফুল ইসলাম এর পোর্টাল")
	assert.Contains(t, body, "সাম্প্রতিক আপডেট")
	assert.Contains(t, body, "এখনো কোনো পোস্ট নেই")
	assert.Contains(t, body, "অ্যাডমিন")
	assert.NotContains(t, body, "লগ-আউট")
	assert.NotContains(t, body, `action="/login"`)
	assert.Contains(t, body, "https://api.dicebear.com/7.x/avataaars/svg?seed=")
}

func TestWebTemplates_HomeWithPosts(t *testing.T) {
	r := webRenderer(t)
	post := model.Post{ID: "p1", Title: "প্রথম পোস্ট", Content: "**হ্যালো**", ImageURL: tinyPNG, Date: "১৪ অক্টোবর, ২০২৬", Category: model.CategoryNews}

	visitor := renderBody(t, r, "home", TemplateData{
		Profile: model.DefaultProfile(),
		Data:    testHomeData{Cards: []testCard{{Post: post}}},
	})
	assert.Contains(t, visitor, "প্রথম পোস্ট")
	assert.Contains(t, visitor, "<strong>হ্যালো</strong>")
	assert.Contains(t, visitor, `src="data:image/png;base64,`)
	assert.NotContains(t, visitor, "/posts/p1/delete")
	assert.NotContains(t, visitor, "এখনো কোনো পোস্ট নেই")

	owner := renderBody(t, r, "home", TemplateData{
		Profile:  model.DefaultProfile(),
		LoggedIn: true,
		Data:     testHomeData{Cards: []testCard{{Post: post, CanDelete: true}}},
	})
	assert.Contains(t, owner, "/posts/p1/delete")
	assert.Contains(t, owner, "লগ-আউট")
	assert.Contains(t, owner, "ড্যাশবোর্ড")
}

func TestWebTemplates_LoginModal(t *testing.T) {
	r := webRenderer(t)
	body := renderBody(t, r, "home", TemplateData{
		Profile:   model.DefaultProfile(),
		ShowLogin: true,
		Data:      testHomeData{},
	})
	assert.Contains(t, body, `action="/login"`)
	assert.Contains(t, body, "অ্যাডমিন এক্সেস")
	assert.Contains(t, body, `name="passkey"`)
}

func TestWebTemplates_Admin(t *testing.T) {
	r := webRenderer(t)
	body := renderBody(t, r, "admin", TemplateData{
		Profile:  model.DefaultProfile(),
		LoggedIn: true,
		IsAdmin:  true,
		Data: testAdminData{
			Draft:      model.Draft{Title: "খসড়া", Content: "লেখা", Category: model.CategoryEvent, ImageURL: tinyPNG},
			Categories: model.Categories,
			Events: []logging.Event{
				{Time: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), Level: logging.EventLevelWarning, Category: logging.EventCategoryEnhance, Message: "enhancement failed"},
			},
			AIEnabled: true,
		},
	})

	assert.Contains(t, body, "অ্যাডমিন ড্যাশবোর্ড")
	assert.Contains(t, body, "হোম দেখুন")
	assert.Contains(t, body, `value="খসড়া"`)
	assert.Contains(t, body, "<option selected>ইভেন্ট</option>")
	assert.Contains(t, body, "AI দিয়ে সাজান")
	assert.Contains(t, body, "ছবির প্রিভিউ")
	assert.Contains(t, body, "enhancement failed")
	assert.Contains(t, body, `action="/profile"`)
	// Inline images are not echoed into the URL field.
	assert.NotContains(t, body, `name="imageUrl" value="data:`)
	assert.False(t, strings.Contains(body, "AI কনফিগার করা নেই"))
}

func TestWebTemplates_AdminWithoutAI(t *testing.T) {
	r := webRenderer(t)
	body := renderBody(t, r, "admin", TemplateData{
		Profile:  model.DefaultProfile(),
		LoggedIn: true,
		IsAdmin:  true,
		Data:     testAdminData{Categories: model.Categories},
	})
	assert.Contains(t, body, "AI কনফিগার করা নেই")
	assert.Contains(t, body, "কোনো সতর্কবার্তা নেই।")
	assert.NotContains(t, body, "ছবির প্রিভিউ")
}

func TestWebTemplates_ConfirmDelete(t *testing.T) {
	r := webRenderer(t)
	body := renderBody(t, r, "confirm_delete", TemplateData{
		Profile:  model.DefaultProfile(),
		LoggedIn: true,
		Data:     testConfirmData{Post: model.Post{ID: "p1", Title: "মুছবো"}},
	})
	assert.Contains(t, body, "আপনি কি নিশ্চিত যে এই পোস্টটি মুছে ফেলতে চান?")
	assert.Contains(t, body, `action="/posts/p1/delete"`)
	assert.Contains(t, body, `name="confirm" value="yes"`)
}
