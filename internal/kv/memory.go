// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryBackend keeps values in process memory. Values are lost on exit;
// it backs tests and FOLIO_STORAGE=memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed atomic.Bool

	// FailSet, when set, is returned by every Set call. Tests use it to
	// simulate a store that rejects writes.
	FailSet error
}

// NewMemoryBackend creates an empty memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	val, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	// Return a copy to prevent mutation
	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

// Set stores a copy of value.
func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailSet != nil {
		return b.FailSet
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	b.data[key] = valueCopy
	return nil
}

// Delete removes key.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.Lock()
	delete(b.data, key)
	b.mu.Unlock()
	return nil
}

// Ping reports whether the backend is still open.
func (b *MemoryBackend) Ping(_ context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close marks the backend closed. Stored values are discarded.
func (b *MemoryBackend) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.mu.Lock()
		b.data = make(map[string][]byte)
		b.mu.Unlock()
	}
	return nil
}
