// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kv is the persistence boundary: a small key-value Backend interface
// with memory, SQLite and Redis implementations, and an Adapter that stores
// whole JSON-encoded records under fixed keys.
package kv

import (
	"context"
	"errors"
)

// Record keys. The names match the keys the site has always used.
const (
	KeyPosts   = "site_posts"
	KeyProfile = "site_profile"
)

// Backend stores raw values by key. All implementations must be thread-safe.
type Backend interface {
	// Get returns the stored value, or ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Pinger is implemented by backends that can report their liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Error represents an error type for kv operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the key has no stored value.
	ErrNotFound Error = "kv: key not found"

	// ErrClosed indicates the backend has been closed.
	ErrClosed Error = "kv: backend closed"

	// ErrTooLarge indicates an encoded record exceeds the configured limit.
	ErrTooLarge Error = "kv: record too large"
)

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
