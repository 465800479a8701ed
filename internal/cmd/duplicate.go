// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/output"
)

func newDuplicatesCmd(app *App) *cobra.Command {
	var (
		out       output.Options
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Detect duplicate or similar books",
		Long:  "Scan the catalog for likely duplicates by ISBN, title similarity and author surname.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("threshold must be between 0 and 1, got %.2f", threshold)
			}

			w := cmd.OutOrStdout()
			books := app.lib.GetAll()
			if len(books) < 2 && !out.Is(output.FormatJSON) && !out.Is(output.FormatYAML) {
				fmt.Fprintln(w, "Not enough books to compare.")
				return nil
			}

			pairs := library.FindDuplicates(books, threshold)
			if done, err := out.Structured(w, pairs); done {
				return err
			}
			if len(pairs) == 0 {
				fmt.Fprintf(w, "No duplicates found (threshold %.2f)\n", threshold)
				return nil
			}

			fmt.Fprintf(w, "Found %d potential duplicate pairs:\n\n", len(pairs))
			for i, p := range pairs {
				fmt.Fprintf(w, "[%d] Score: %.2f (%s)\n", i+1, p.Score, p.Reason)
				fmt.Fprintf(w, "    A: %s  %s\n", shortID(p.A.ID), output.Truncate(p.A.Title+" by "+p.A.Author, 60))
				fmt.Fprintf(w, "    B: %s  %s\n\n", shortID(p.B.ID), output.Truncate(p.B.Title+" by "+p.B.Author, 60))
			}
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.FormatTable)
	cmd.Flags().Float64Var(&threshold, "threshold", library.DefaultDuplicateThreshold, "Title similarity threshold (0-1)")
	return cmd
}
