// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/folio/internal/model"
)

// PostSource provides the current post feed.
type PostSource interface {
	List() []model.Post
}

// ProfileSource provides the current profile.
type ProfileSource interface {
	Get() model.Profile
}

// Exporter builds snapshots from the live stores.
type Exporter struct {
	posts   PostSource
	profile ProfileSource
	logger  *slog.Logger
	now     func() time.Time
}

// NewExporter creates a new Exporter instance.
func NewExporter(posts PostSource, profile ProfileSource, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		posts:   posts,
		profile: profile,
		logger:  logger,
		now:     time.Now,
	}
}

// Export captures the current profile and posts.
func (e *Exporter) Export() *Snapshot {
	posts := e.posts.List()
	if posts == nil {
		posts = []model.Post{}
	}
	return &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: e.now().UTC(),
		Profile:    e.profile.Get(),
		Posts:      posts,
	}
}

// ExportToWriter writes a snapshot in the given format to w.
func (e *Exporter) ExportToWriter(w io.Writer, format string) error {
	return Encode(w, e.Export(), format)
}

// ExportToFile writes a snapshot to path. The file is written under a
// temporary name and renamed, so a crash never leaves a truncated snapshot.
func (e *Exporter) ExportToFile(path, format string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	snapshot := e.Export()
	if err = Encode(tmp, snapshot, format); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming snapshot file: %w", err)
	}
	e.logger.Info("snapshot written", "path", path, "posts", len(snapshot.Posts))
	return nil
}

// Encode writes s to w as indented JSON or YAML.
func Encode(w io.Writer, s *Snapshot, format string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("encoding json snapshot: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml snapshot: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode reads a snapshot in the given format from r.
func Decode(r io.Reader, format string) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &s, nil
}
