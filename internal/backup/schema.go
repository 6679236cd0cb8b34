// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backup snapshots the profile and post records to JSON or YAML
// files, restores them, and runs scheduled snapshots with cron.
package backup

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
)

// SnapshotVersion is the current version of the snapshot format.
const SnapshotVersion = "1.0"

// Snapshot formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for a format other than json or yaml.
var ErrUnknownFormat = errors.New("backup: unknown format")

// Snapshot is the complete site content: one profile and the post feed in
// display order. The profile and post field names match the stored records.
type Snapshot struct {
	Version    string        `json:"version" yaml:"version"`
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Profile    model.Profile `json:"profile" yaml:"profile"`
	Posts      []model.Post  `json:"posts" yaml:"posts"`
}

// IsKnownFormat reports whether format names a supported snapshot format.
func IsKnownFormat(format string) bool {
	return format == FormatJSON || format == FormatYAML
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func extension(format string) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}
