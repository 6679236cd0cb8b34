// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging turns uploaded images into inline data URIs and validates
// image references before they reach the stores.
package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Default limits for inline images.
const (
	DefaultMaxBytes     = 2 << 20 // 2 MiB decoded
	DefaultMaxDimension = 1600
)

var (
	// ErrUnsupportedType is returned for anything but jpeg, png, gif and webp.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned when image data exceeds the configured limit.
	ErrTooLarge = errors.New("image too large")
	// ErrInvalidRef is returned for references that are neither http(s) URLs
	// nor base64 image data URIs.
	ErrInvalidRef = errors.New("invalid image reference")
)

const dataURIPrefix = "data:"

// IsSupportedMimeType reports whether mimeType is an accepted image type.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// DetectMimeType sniffs the MIME type of raw data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "image/jpeg; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its MIME type and decoded bytes.
func ParseDataURI(ref string) (string, []byte, error) {
	if !strings.HasPrefix(ref, dataURIPrefix) {
		return "", nil, ErrInvalidRef
	}
	header, payload, found := strings.Cut(ref[len(dataURIPrefix):], ",")
	if !found {
		return "", nil, fmt.Errorf("%w: missing data separator", ErrInvalidRef)
	}
	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: data URI is not base64", ErrInvalidRef)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}
	return mimeType, data, nil
}

// IsDataURI reports whether ref is inline data rather than a URL.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, dataURIPrefix)
}

// ValidateRef checks an image reference as stored on a Post or Profile.
// Empty references are accepted; callers decide whether the field is required.
// Data URIs must carry a supported image type whose declared MIME matches the
// bytes and whose decoded size is within maxBytes (0 disables the size check).
func ValidateRef(ref string, maxBytes int64) error {
	if ref == "" {
		return nil
	}

	if !IsDataURI(ref) {
		u, err := url.Parse(ref)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidRef
		}
		return nil
	}

	// Cheap size check before decoding the whole payload.
	if maxBytes > 0 {
		if _, payload, ok := strings.Cut(ref, ","); ok && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+3 {
			return ErrTooLarge
		}
	}

	mimeType, data, err := ParseDataURI(ref)
	if err != nil {
		return err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return ErrTooLarge
	}
	if !IsSupportedMimeType(mimeType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	if detected := DetectMimeType(data); detected != mimeType {
		return fmt.Errorf("%w: declared %s, content is %s", ErrUnsupportedType, mimeType, detected)
	}
	return nil
}
