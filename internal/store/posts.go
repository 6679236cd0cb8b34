// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/olegiv/folio/internal/kv"
	"github.com/olegiv/folio/internal/model"
)

// PostStore is the ordered collection of posts, newest first. Every mutation
// is written through to the adapter before it returns; if the write fails the
// in-memory collection is left as it was.
type PostStore struct {
	mu       sync.Mutex
	posts    []model.Post
	adapter  *kv.Adapter
	logger   *slog.Logger
	maxImage int64
}

// NewPostStore loads the stored posts. A missing or corrupt record yields an
// empty collection.
func NewPostStore(ctx context.Context, adapter *kv.Adapter, opts Options) *PostStore {
	opts = opts.withDefaults()

	s := &PostStore{
		adapter:  adapter,
		logger:   opts.Logger,
		maxImage: opts.MaxImageBytes,
	}

	var loaded []model.Post
	if adapter.Load(ctx, kv.KeyPosts, &loaded) {
		s.posts = make([]model.Post, 0, len(loaded))
		for _, p := range loaded {
			s.posts = append(s.posts, p.WithDefaults())
		}
	}
	s.logger.Debug("posts loaded", "count", len(s.posts))
	return s
}

// List returns a copy of all posts, newest first.
func (s *PostStore) List() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

// Len returns the number of posts.
func (s *PostStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// Get returns the post with id.
func (s *PostStore) Get(id string) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.Post{}, false
	}
	return s.posts[i], true
}

// Add validates p, places it at the front and persists the collection.
func (s *PostStore) Add(ctx context.Context, p model.Post) error {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := validateImage("imageUrl", p.ImageURL, s.maxImage); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(p.ID) >= 0 {
		return fmt.Errorf("adding post %s: %w", p.ID, ErrDuplicateID)
	}

	next := make([]model.Post, 0, len(s.posts)+1)
	next = append(next, p)
	next = append(next, s.posts...)

	if err := s.adapter.Save(ctx, kv.KeyPosts, next); err != nil {
		return fmt.Errorf("adding post: %w", err)
	}
	s.posts = next
	s.logger.Info("post published", "id", p.ID, "category", p.Category)
	return nil
}

// Remove deletes the post with id. Removing an unknown id does nothing and
// does not write.
func (s *PostStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.posts), i, i+1)
	if err := s.adapter.Save(ctx, kv.KeyPosts, next); err != nil {
		return fmt.Errorf("removing post %s: %w", id, err)
	}
	s.posts = next
	s.logger.Info("post deleted", "id", id)
	return nil
}

// Replace swaps the whole collection, keeping the given order. Used by import.
func (s *PostStore) Replace(ctx context.Context, posts []model.Post) error {
	next := make([]model.Post, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		p = p.WithDefaults()
		if err := p.Validate(); err != nil {
			return fmt.Errorf("post %q: %w", p.ID, err)
		}
		if err := validateImage("imageUrl", p.ImageURL, s.maxImage); err != nil {
			return fmt.Errorf("post %q: %w", p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("post %q: %w", p.ID, ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}
		next = append(next, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adapter.Save(ctx, kv.KeyPosts, next); err != nil {
		return fmt.Errorf("replacing posts: %w", err)
	}
	s.posts = next
	return nil
}

func (s *PostStore) index(id string) int {
	return slices.IndexFunc(s.posts, func(p model.Post) bool { return p.ID == id })
}
