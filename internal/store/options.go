// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"log/slog"

	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/model"
)

// Options configures the Post and Profile stores.
type Options struct {
	Logger *slog.Logger

	// MaxImageBytes caps inline data URI images. Zero uses imaging.DefaultMaxBytes.
	MaxImageBytes int64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MaxImageBytes <= 0 {
		o.MaxImageBytes = imaging.DefaultMaxBytes
	}
	return o
}

// validateImage maps image reference errors to a user-facing validation error.
func validateImage(field, ref string, maxBytes int64) error {
	if err := imaging.ValidateRef(ref, maxBytes); err != nil {
		return &model.ValidationError{Field: field, Message: model.MsgImageInvalid}
	}
	return nil
}
