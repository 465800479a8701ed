// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/output"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

const maxBarWidth = 30

// catalogStats is the machine-readable stats payload.
type catalogStats struct {
	library.Stats `yaml:",inline"`
	Search        search.Stats `json:"search" yaml:"search"`
}

func newStatsCmd(app *App) *cobra.Command {
	var out output.Options

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Display totals, the most used tag, status counts and books added over the last 7 days.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			stats := catalogStats{Stats: app.lib.Stats(app.now()), Search: app.engine.SearchStats()}
			if done, err := out.Structured(cmd.OutOrStdout(), stats); done {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render("Catalog Statistics"))
			fmt.Fprintf(w, "==================\n\n")
			fmt.Fprintf(w, "Books:          %s\n", humanize.Comma(int64(stats.Total)))
			fmt.Fprintf(w, "With notes:     %s\n", humanize.Comma(int64(stats.WithNotes)))
			fmt.Fprintf(w, "Top tag:        %s\n", stats.TopTag)
			fmt.Fprintf(w, "Authors:        %s unique\n", humanize.Comma(int64(stats.Search.UniqueAuthors)))
			fmt.Fprintf(w, "Tags:           %s unique, %.1f per book\n",
				humanize.Comma(int64(stats.Search.UniqueTags)), stats.Search.AverageTagsPerBook)
			fmt.Fprintln(w, "By status:")
			for _, s := range library.Statuses {
				fmt.Fprintf(w, "  %-8s %d\n", s.Label()+":", stats.ByStatus[s])
			}

			fmt.Fprintln(w, "\nAdded in the last 7 days:")
			peak := 0
			for _, d := range stats.LastWeek {
				peak = max(peak, d.Count)
			}
			for _, d := range stats.LastWeek {
				width := 0
				if peak > 0 {
					width = d.Count * maxBarWidth / peak
				}
				fmt.Fprintf(w, "  %-6s %s %d\n", d.Label, barStyle.Render(strings.Repeat("█", width)), d.Count)
			}
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.FormatTable)
	return cmd
}
