// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Default post categories offered by the admin composer.
// Categories are stored as plain text, so any other label is accepted too.
const (
	CategoryGeneral = "সাধারণ"
	CategoryUpdate  = "আপডেট"
	CategoryNews    = "খবর"
	CategoryEvent   = "ইভেন্ট"
)

// Categories lists the default categories in display order.
var Categories = []string{CategoryGeneral, CategoryUpdate, CategoryNews, CategoryEvent}

// Post is a single published item in the feed.
// JSON field names match the persisted site_posts layout.
type Post struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Date     string `json:"date" yaml:"date"`
	Category string `json:"category" yaml:"category"`
}

// Draft is the unpublished state of the post composer.
type Draft struct {
	Title    string
	Content  string
	Category string
	ImageURL string
}

// IsEmpty reports whether nothing has been entered yet.
func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.Content == "" && d.ImageURL == ""
}

// Normalize trims surrounding whitespace and applies NFC normalization so that
// Bengali text typed as split vowel sign sequences is stored in
// one canonical form.
func (d Draft) Normalize() Draft {
	d.Title = normalizeText(d.Title)
	d.Content = normalizeText(d.Content)
	d.Category = normalizeText(d.Category)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	if d.Category == "" {
		d.Category = CategoryGeneral
	}
	return d
}

// ValidateForPublish checks that a draft has every field publishing requires.
func (d Draft) ValidateForPublish() error {
	if d.Title == "" || d.Content == "" || d.ImageURL == "" {
		return &ValidationError{Field: firstMissing(d), Message: MsgPublishRequired}
	}
	return nil
}

// ValidateForEnhance checks that a draft has enough text to enhance.
func (d Draft) ValidateForEnhance() error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Message: MsgEnhanceRequired}
	}
	if d.Content == "" {
		return &ValidationError{Field: "content", Message: MsgEnhanceRequired}
	}
	return nil
}

func firstMissing(d Draft) string {
	switch {
	case d.Title == "":
		return "title"
	case d.Content == "":
		return "content"
	default:
		return "imageUrl"
	}
}

// Publish turns a validated draft into a Post with a fresh id and the creation
// date formatted by formatDate.
func (d Draft) Publish(now time.Time, formatDate func(time.Time) string) (Post, error) {
	d = d.Normalize()
	if err := d.ValidateForPublish(); err != nil {
		return Post{}, err
	}
	return Post{
		ID:       NewPostID(now),
		Title:    d.Title,
		Content:  d.Content,
		ImageURL: d.ImageURL,
		Date:     formatDate(now),
		Category: d.Category,
	}, nil
}

// Validate checks the fields every stored post must carry.
func (p Post) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return &ValidationError{Field: "id", Message: "post id is required"}
	case strings.TrimSpace(p.Title) == "":
		return &ValidationError{Field: "title", Message: MsgPublishRequired}
	case strings.TrimSpace(p.Content) == "":
		return &ValidationError{Field: "content", Message: MsgPublishRequired}
	case strings.TrimSpace(p.ImageURL) == "":
		return &ValidationError{Field: "imageUrl", Message: MsgPublishRequired}
	}
	return nil
}

// WithDefaults fills fields that older stored records may lack.
func (p Post) WithDefaults() Post {
	if p.Category == "" {
		p.Category = CategoryGeneral
	}
	return p
}

// NewPostID returns a time-ordered unique id. UUIDv7 keeps the ordering
// property of the timestamp ids the site used historically without their
// collision risk. If the random source fails it falls back to the timestamp.
func NewPostID(now time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		return now.UTC().Format("20060102150405.000000000")
	}
	return id.String()
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
