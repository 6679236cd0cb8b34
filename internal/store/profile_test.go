// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/kv"
	"github.com/olegiv/folio/internal/model"
)

func TestProfileStore_DefaultOnFirstRun(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(ctx, testAdapter(kv.NewMemoryBackend()), testOptions())

	got := s.Get()
	assert.Equal(t, "আরিফুল ইসলাম", got.Name)
	assert.Equal(t, model.DefaultProfile(), got)
}

func TestProfileStore_UpdateReplacesWhole(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := NewProfileStore(ctx, testAdapter(backend), testOptions())

	next := model.Profile{
		Name:            "নতুন নাম",
		Role:            "লেখক",
		ProfileImageURL: pngDataURI(),
		WhatsappURL:     "8801700000000",
	}
	require.NoError(t, s.Update(ctx, next))

	// Fields left empty stay empty: no merge with the previous profile.
	got := s.Get()
	assert.Equal(t, next, got)
	assert.Empty(t, got.FacebookURL)
	assert.Empty(t, got.Email)

	reloaded := NewProfileStore(ctx, testAdapter(backend), testOptions())
	assert.Equal(t, next, reloaded.Get())
}

func TestProfileStore_UpdateNormalizes(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(ctx, testAdapter(kv.NewMemoryBackend()), testOptions())

	require.NoError(t, s.Update(ctx, model.Profile{Name: "  নাম  ", Role: " রোল", Email: " a@b.c "}))
	got := s.Get()
	assert.Equal(t, "নাম", got.Name)
	assert.Equal(t, "রোল", got.Role)
	assert.Equal(t, "a@b.c", got.Email)
}

func TestProfileStore_UpdateRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		field   string
	}{
		{"empty name", model.Profile{Role: "r"}, "name"},
		{"empty role", model.Profile{Name: "n"}, "role"},
		{"bad email", model.Profile{Name: "n", Role: "r", Email: "nope"}, "email"},
		{"bad image", model.Profile{Name: "n", Role: "r", ProfileImageURL: "ftp://x/y.png"}, "profileImageUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewProfileStore(ctx, testAdapter(kv.NewMemoryBackend()), testOptions())

			err := s.Update(ctx, tt.profile)
			ve, ok := model.IsValidation(err)
			require.True(t, ok, "error = %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, model.DefaultProfile(), s.Get(), "rejected update must not change the profile")
		})
	}
}

func TestProfileStore_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := NewProfileStore(ctx, testAdapter(backend), testOptions())

	backend.FailSet = errors.New("quota exceeded")
	err := s.Update(ctx, model.Profile{Name: "n", Role: "r"})
	require.Error(t, err)
	assert.Equal(t, model.DefaultProfile(), s.Get())
}

func TestProfileStore_PartialRecordUsesDefaults(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, kv.KeyProfile, []byte(`{"name":"শুধু নাম"}`)))

	s := NewProfileStore(ctx, testAdapter(backend), testOptions())
	got := s.Get()
	assert.Equal(t, "শুধু নাম", got.Name)
	assert.Equal(t, model.DefaultProfile().Role, got.Role)
}

func TestProfileStore_CorruptRecordUsesDefault(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, kv.KeyProfile, []byte(`{"name": 42`)))

	s := NewProfileStore(ctx, testAdapter(backend), testOptions())
	assert.Equal(t, model.DefaultProfile(), s.Get())
}
