// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/tui"
)

func newBrowseCmd(app *App) *cobra.Command {
	var (
		regex         bool
		caseSensitive bool
		status        string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search the catalog interactively",
		Long: `Open a full-screen browser that searches as you type.

Press enter to save the query to history, tab to cycle the status filter,
ctrl+r to toggle regex, ctrl+t to toggle case-insensitive matching and
ctrl+o to show the selected book.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.engine.SetFilter(status); err != nil {
				return err
			}
			return tui.Run(app.engine, app.searchOptions(cmd, regex, caseSensitive))
		},
	}

	cmd.Flags().BoolVarP(&regex, "regex", "r", false, "Start in regex mode")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "c", false, "Start with case-sensitive matching")
	cmd.Flags().StringVarP(&status, "status", "s", "all", "Initial status filter")
	return cmd
}
