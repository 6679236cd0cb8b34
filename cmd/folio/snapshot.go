// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/backup"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the profile and posts",
		Long: `Export the profile and every post as a single JSON or YAML snapshot.

Without --output the snapshot is written to standard output.

Examples:
  folio export > backup.json
  folio export --format yaml --output backup.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("format") && output != "" {
				format = backup.FormatFromPath(output)
			}
			if !backup.IsKnownFormat(format) {
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}

			return withApp(cmd, func(a *app, logger *slog.Logger) error {
				exporter := backup.NewExporter(a.posts, a.profile, logger)
				if output == "" {
					return exporter.ExportToWriter(cmd.OutOrStdout(), format)
				}
				if err := exporter.ExportToFile(output, format); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d posts to %s\n", a.posts.Len(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", backup.FormatJSON, "snapshot format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of standard output")
	return cmd
}

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the profile and posts from a snapshot",
		Long: `Import a snapshot written by "folio export". The stored profile and
post feed are replaced entirely. The format follows the file extension
(.yaml/.yml or JSON otherwise).

Examples:
  folio import backup.json
  folio import --dry-run backup.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app, logger *slog.Logger) error {
				importer := backup.NewImporter(a.posts, a.profile, logger)
				result, err := importer.ImportFromFile(cmdContext(cmd), args[0], backup.ImportOptions{
					DryRun:        dryRun,
					MaxImageBytes: a.cfg.MaxImageBytes,
				})
				if err != nil {
					return err
				}
				return reportImport(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the snapshot without writing")
	return cmd
}

func reportImport(w io.Writer, result *backup.ImportResult) error {
	if !result.Success() {
		for _, e := range result.Errors {
			_, _ = fmt.Fprintln(w, "  -", e.String())
		}
		return fmt.Errorf("snapshot rejected with %d errors", len(result.Errors))
	}
	if result.DryRun {
		_, _ = fmt.Fprintf(w, "snapshot is valid: %d posts\n", result.Posts)
		return nil
	}
	_, _ = fmt.Fprintf(w, "imported %d posts and the profile\n", result.Posts)
	return nil
}

// withApp loads the config and storage for a one-shot command. Logs go to
// stderr so they never mix with a snapshot written to stdout.
func withApp(cmd *cobra.Command, fn func(a *app, logger *slog.Logger) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg.LogLevel, nil)

	a, err := openApp(cmdContext(cmd), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	return fn(a, logger)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
