// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/output"
)

func newSettingsCmd(app *App) *cobra.Command {
	var (
		out          output.Options
		theme        string
		itemsPerPage int
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user preferences",
		Long: `Show the stored preferences, or change them with flags.

Examples:
  arc-bookvault settings
  arc-bookvault settings --theme dark --items-per-page 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			ctx := context.Background()
			settings, err := app.store.LoadSettings(ctx)
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("theme") {
				theme = strings.TrimSpace(theme)
				if theme == "" {
					return errors.New("theme cannot be blank")
				}
				settings.Theme = theme
				changed = true
			}
			if cmd.Flags().Changed("items-per-page") {
				if itemsPerPage < 1 {
					return fmt.Errorf("items per page must be at least 1, got %d", itemsPerPage)
				}
				settings.ItemsPerPage = itemsPerPage
				changed = true
			}
			if changed {
				if err := app.store.SaveSettings(ctx, settings); err != nil {
					return fmt.Errorf("save settings: %w", err)
				}
			}

			if done, err := out.Structured(cmd.OutOrStdout(), settings); done {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Theme:          %s\n", settings.Theme)
			fmt.Fprintf(w, "Items per page: %d\n", settings.ItemsPerPage)
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.FormatTable)
	cmd.Flags().StringVar(&theme, "theme", "", "Display theme name")
	cmd.Flags().IntVar(&itemsPerPage, "items-per-page", 0, "Rows shown by list")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Config.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}
