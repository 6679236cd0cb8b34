// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)

	// htmlSanitizer strips anything unsafe the markdown may have produced,
	// including raw HTML typed into a post.
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Markdown renders post content as sanitized HTML. Line breaks are kept as
// typed so plain-text posts render as they were written.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}
