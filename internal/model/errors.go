// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the Post and Profile records and their validation rules.
package model

import "errors"

// User-facing validation messages.
const (
	MsgPublishRequired     = "সবগুলো ঘর পূরণ করুন এবং একটি ছবি আপলোড করুন।"
	MsgEnhanceRequired     = "অনুগ্রহ করে আগে একটি শিরোনাম এবং মূল লেখা লিখুন।"
	MsgProfileNameRequired = "আপনার নাম লিখুন।"
	MsgProfileRoleRequired = "আপনার পদবী / রোল লিখুন।"
	MsgProfileEmailInvalid = "সঠিক ইমেইল ঠিকানা লিখুন।"
	MsgImageInvalid        = "ছবিটি গ্রহণযোগ্য নয়। ২ MB এর ছোট JPEG, PNG, GIF বা WebP ছবি দিন।"
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError,
// returning it when so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
