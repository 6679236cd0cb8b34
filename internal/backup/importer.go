// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/model"
)

// PostReplacer swaps the whole post feed.
type PostReplacer interface {
	PostSource
	Replace(ctx context.Context, posts []model.Post) error
}

// ProfileUpdater replaces the profile.
type ProfileUpdater interface {
	ProfileSource
	Update(ctx context.Context, p model.Profile) error
}

// ImportOptions configures an import.
type ImportOptions struct {
	// DryRun validates the snapshot without writing anything.
	DryRun bool
	// MaxImageBytes caps inline data URI images, as the stores do.
	// Zero uses imaging.DefaultMaxBytes.
	MaxImageBytes int64
}

// ImportError describes one problem found in a snapshot.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (e ImportError) String() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Message)
	}
	return e.Entity + ": " + e.Message
}

// ImportResult reports what an import did.
type ImportResult struct {
	DryRun bool          `json:"dry_run"`
	Posts  int           `json:"posts"`
	Errors []ImportError `json:"errors,omitempty"`
}

// Success reports whether the snapshot was accepted.
func (r *ImportResult) Success() bool {
	return len(r.Errors) == 0
}

// Importer restores snapshots into the live stores. An import replaces both
// records entirely.
type Importer struct {
	posts   PostReplacer
	profile ProfileUpdater
	logger  *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(posts PostReplacer, profile ProfileUpdater, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{posts: posts, profile: profile, logger: logger}
}

// Validate checks a snapshot without touching the stores. It applies the
// same checks the stores run on write, so a snapshot that passes here is
// accepted by Import.
func (i *Importer) Validate(s *Snapshot, opts ImportOptions) []ImportError {
	var errs []ImportError

	maxImage := opts.MaxImageBytes
	if maxImage <= 0 {
		maxImage = imaging.DefaultMaxBytes
	}

	if s.Version == "" {
		errs = append(errs, ImportError{Entity: "snapshot", Message: "missing version"})
	} else if major, _, _ := strings.Cut(s.Version, "."); major != "1" {
		errs = append(errs, ImportError{Entity: "snapshot", Message: "unsupported version " + s.Version})
	}

	profile := s.Profile.Normalize()
	if err := profile.Validate(); err != nil {
		errs = append(errs, ImportError{Entity: "profile", Message: err.Error()})
	} else if err := imaging.ValidateRef(profile.ProfileImageURL, maxImage); err != nil {
		errs = append(errs, ImportError{Entity: "profile", Message: "invalid profileImageUrl: " + err.Error()})
	}

	seen := make(map[string]struct{}, len(s.Posts))
	for idx, p := range s.Posts {
		p = p.WithDefaults()
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("#%d", idx+1)
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, ImportError{Entity: "post", ID: id, Message: err.Error()})
			continue
		}
		if err := imaging.ValidateRef(p.ImageURL, maxImage); err != nil {
			errs = append(errs, ImportError{Entity: "post", ID: id, Message: "invalid imageUrl: " + err.Error()})
			continue
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, ImportError{Entity: "post", ID: id, Message: "duplicate id"})
		}
		seen[p.ID] = struct{}{}
	}

	return errs
}

// Import validates s and, unless DryRun is set, replaces the posts and the
// profile. If the profile write fails the previous posts are restored.
func (i *Importer) Import(ctx context.Context, s *Snapshot, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DryRun: opts.DryRun, Posts: len(s.Posts)}

	if errs := i.Validate(s, opts); len(errs) > 0 {
		result.Errors = errs
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	previous := i.posts.List()
	if err := i.posts.Replace(ctx, s.Posts); err != nil {
		return result, fmt.Errorf("importing posts: %w", err)
	}
	if err := i.profile.Update(ctx, s.Profile); err != nil {
		if rbErr := i.posts.Replace(ctx, previous); rbErr != nil {
			i.logger.Error("failed to restore posts after import failure", "error", rbErr)
		}
		return result, fmt.Errorf("importing profile: %w", err)
	}

	i.logger.Info("snapshot imported", "posts", result.Posts, "exported_at", s.ExportedAt)
	return result, nil
}

// ImportFromReader decodes a snapshot in the given format and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, format string, opts ImportOptions) (*ImportResult, error) {
	s, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, s, opts)
}

// ImportFromFile imports a snapshot file, picking the format from its
// extension.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return i.ImportFromReader(ctx, f, FormatFromPath(path), opts)
}
