// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DefaultMaxRecordBytes bounds a single encoded record. Posts carry inline
// images, so the limit is generous.
const DefaultMaxRecordBytes = 32 << 20

// AdapterOptions configures an Adapter.
type AdapterOptions struct {
	Logger         *slog.Logger
	MaxRecordBytes int
}

// Adapter reads and writes whole JSON records through a Backend.
type Adapter struct {
	backend  Backend
	logger   *slog.Logger
	maxBytes int
}

// NewAdapter creates an adapter over backend.
func NewAdapter(backend Backend, opts AdapterOptions) *Adapter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxRecordBytes <= 0 {
		opts.MaxRecordBytes = DefaultMaxRecordBytes
	}
	return &Adapter{
		backend:  backend,
		logger:   opts.Logger,
		maxBytes: opts.MaxRecordBytes,
	}
}

// Backend returns the underlying backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load decodes the record stored under key into dst. It returns false when
// the key is absent, the backend fails or the stored bytes are not valid
// JSON; the last two are logged. dst may be partially written on a decode
// failure, so callers should decode into a scratch value.
func (a *Adapter) Load(ctx context.Context, key string, dst any) bool {
	data, err := a.backend.Get(ctx, key)
	if err != nil {
		if !IsNotFound(err) {
			a.logger.Warn("failed to read record", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		a.logger.Warn("discarding corrupt record", "key", key, "error", err)
		return false
	}
	return true
}

// Save encodes v as JSON and writes it under key, replacing any previous value.
func (a *Adapter) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if len(data) > a.maxBytes {
		return fmt.Errorf("saving %s (%d bytes, limit %d): %w", key, len(data), a.maxBytes, ErrTooLarge)
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Ping reports backend liveness. Backends without a Ping method are assumed
// healthy.
func (a *Adapter) Ping(ctx context.Context) error {
	if p, ok := a.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
