// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/folio/internal/kv"
	"github.com/olegiv/folio/internal/model"
)

// ErrDuplicateID is returned when a post id is already present.
var ErrDuplicateID = errors.New("duplicate post id")

// ProfileStore holds the single site profile.
type ProfileStore struct {
	mu       sync.Mutex
	profile  model.Profile
	adapter  *kv.Adapter
	logger   *slog.Logger
	maxImage int64
}

// NewProfileStore loads the stored profile, falling back to the default when
// none is stored or the record is unreadable. Fields missing from an older
// record take their default values.
func NewProfileStore(ctx context.Context, adapter *kv.Adapter, opts Options) *ProfileStore {
	opts = opts.withDefaults()

	s := &ProfileStore{
		profile:  model.DefaultProfile(),
		adapter:  adapter,
		logger:   opts.Logger,
		maxImage: opts.MaxImageBytes,
	}

	loaded := model.DefaultProfile()
	if adapter.Load(ctx, kv.KeyProfile, &loaded) {
		s.profile = loaded
	}
	return s
}

// Get returns the current profile.
func (s *ProfileStore) Get() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Update replaces the whole profile and persists it.
func (s *ProfileStore) Update(ctx context.Context, p model.Profile) error {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := validateImage("profileImageUrl", p.ProfileImageURL, s.maxImage); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adapter.Save(ctx, kv.KeyProfile, p); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	s.profile = p
	s.logger.Info("profile updated", "name", p.Name)
	return nil
}
