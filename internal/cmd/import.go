// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

func newImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalog with books from a JSON export",
		Long: `Import a JSON envelope written by 'arc-bookvault export'.

The whole catalog is replaced. You are asked to confirm unless --yes is given.
Books without an id get a new one; unknown statuses become to-read.
Entries without a title or author are skipped.

Examples:
  arc-bookvault import backup.json
  arc-bookvault import ~/Downloads/books.json --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.HasPrefix(path, "~") {
				home, _ := os.UserHomeDir()
				path = filepath.Join(home, path[1:])
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			books, skipped, err := library.ParseEnvelope(data, app.now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			plan := library.NewImportPlan(app.lib.Len(), books, skipped)
			fmt.Fprintln(w, plan.Message())
			if !yes {
				fmt.Fprint(w, "\nContinue? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(w, "Import cancelled.")
					return nil
				}
			}

			err = app.lib.ImportAll(plan.Books)
			fmt.Fprintf(w, "Imported %d book(s).\n", plan.Incoming)
			return softFail(cmd.ErrOrStderr(), err)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
