// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/folio/internal/logging"
)

// filePrefix starts every scheduled snapshot name.
const filePrefix = "folio-"

// SchedulerOptions configures scheduled snapshots.
type SchedulerOptions struct {
	// Schedule is a standard five-field cron expression or descriptor such
	// as "@daily".
	Schedule string
	Dir      string
	Format   string
	// Keep is how many snapshots to retain; zero keeps all of them.
	Keep   int
	Logger *slog.Logger
}

// Scheduler writes snapshots to a directory on a cron schedule.
type Scheduler struct {
	exporter *Exporter
	opts     SchedulerOptions
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler validates opts and creates a scheduler. Call Start to run it.
func NewScheduler(exporter *Exporter, opts SchedulerOptions) (*Scheduler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if !IsKnownFormat(opts.Format) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if _, err := cron.ParseStandard(opts.Schedule); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", opts.Schedule, err)
	}

	return &Scheduler{
		exporter: exporter,
		opts:     opts,
		cron:     cron.New(),
		logger:   opts.Logger,
		now:      time.Now,
	}, nil
}

// Start registers the snapshot job and starts the cron runner.
func (s *Scheduler) Start() error {
	if err := os.MkdirAll(s.opts.Dir, 0750); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	_, err := s.cron.AddFunc(s.opts.Schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			s.logger.Error("scheduled snapshot failed", "category", logging.EventCategoryBackup, "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("backup scheduler started", "schedule", s.opts.Schedule, "dir", s.opts.Dir)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running snapshot.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("backup scheduler stopped")
}

// RunOnce writes one snapshot now and prunes old ones. It returns the path
// of the new file.
func (s *Scheduler) RunOnce() (string, error) {
	name := filePrefix + s.now().UTC().Format("20060102-150405") + extension(s.opts.Format)
	path := filepath.Join(s.opts.Dir, name)

	if err := s.exporter.ExportToFile(path, s.opts.Format); err != nil {
		return "", err
	}
	s.logger.Info("snapshot saved", "category", logging.EventCategoryBackup, "path", path)

	if err := s.prune(); err != nil {
		s.logger.Warn("failed to prune old snapshots", "category", logging.EventCategoryBackup, "error", err)
	}
	return path, nil
}

// prune removes the oldest snapshots beyond Keep. Names sort by time.
func (s *Scheduler) prune() error {
	if s.opts.Keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), filePrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.opts.Keep {
		return nil
	}

	slices.Sort(names)
	for _, name := range names[:len(names)-s.opts.Keep] {
		if err := os.Remove(filepath.Join(s.opts.Dir, name)); err != nil {
			return err
		}
	}
	return nil
}
