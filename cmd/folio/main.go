// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the folio server and its admin CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}.Resolve()

	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a single-owner portfolio and post feed",
		Long: `folio serves a one-page portfolio with a post feed and a passkey-gated
admin dashboard for editing the profile and publishing posts.

Configuration is read from FOLIO_* environment variables and an optional
.env file in the working directory.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("folio {{.Version}}\n")

	root.AddCommand(
		newServeCmd(),
		newPasskeyCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return root
}
