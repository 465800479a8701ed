// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for arc-bookvault.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "arc-bookvault",
		Short: "Catalog and search your personal book collection",
		Long: `Keep track of the books you own, are reading, and have read.

arc-bookvault provides tools to:
- Add, edit and remove books with validated ISBNs and tags
- Search by text or regular expression, with filters and sorting
- Review reading statistics and spot duplicates
- Export to JSON, YAML, Markdown, BibTeX or RIS and import JSON backups
- Browse interactively in the terminal or over a local HTTP API`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return app.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/arc-bookvault/config.yaml)")

	root.AddCommand(newAddCmd(app))
	root.AddCommand(newEditCmd(app))
	root.AddCommand(newDeleteCmd(app))
	root.AddCommand(newShowCmd(app))
	root.AddCommand(newListCmd(app))
	root.AddCommand(newSearchCmd(app))
	root.AddCommand(newSuggestCmd(app))
	root.AddCommand(newHistoryCmd(app))
	root.AddCommand(newQuickCmd(app))
	root.AddCommand(newStatsCmd(app))
	root.AddCommand(newDuplicatesCmd(app))
	root.AddCommand(newExportCmd(app))
	root.AddCommand(newImportCmd(app))
	root.AddCommand(newSettingsCmd(app))
	root.AddCommand(newConfigCmd(app))
	root.AddCommand(newWebCmd(app))
	root.AddCommand(newBrowseCmd(app))

	return root
}

// skipSetup is true for commands that never touch the catalog.
func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "__complete", "__completeNoDesc":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}
