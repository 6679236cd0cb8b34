// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/auth"
)

// minPasskeyLength matches the shortest passkey the admin prompt accepts.
const minPasskeyLength = 4

func newPasskeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passkey",
		Short: "Manage the admin passkey",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(newPasskeyHashCmd())
	return cmd
}

func newPasskeyHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [passkey]",
		Short: "Print an Argon2id hash for FOLIO_ADMIN_PASSKEY_HASH",
		Long: `Hash a passkey for the FOLIO_ADMIN_PASSKEY_HASH setting.

The passkey is read from the first line of standard input when not given
as an argument, which keeps it out of the shell history.

Examples:
  folio passkey hash
  echo 'my secret passkey' | folio passkey hash`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPasskeyHash,
	}
}

func runPasskeyHash(cmd *cobra.Command, args []string) error {
	var passkey string
	if len(args) == 1 {
		passkey = args[0]
	} else {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Passkey: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no passkey given on standard input")
		}
		passkey = strings.TrimRight(line, "\r\n")
	}

	if len(strings.TrimSpace(passkey)) < minPasskeyLength {
		return fmt.Errorf("passkey must be at least %d characters", minPasskeyLength)
	}

	hash, err := auth.HashPasskey(passkey)
	if err != nil {
		return fmt.Errorf("hashing passkey: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
