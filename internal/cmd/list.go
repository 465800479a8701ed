// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/output"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	markStyle  = lipgloss.NewStyle().Reverse(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func markMatch(s string) string { return markStyle.Render(s) }

func newListCmd(app *App) *cobra.Command {
	var (
		out    output.Options
		status string
		sortBy string
		order  string
		limit  int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the catalog",
		Long: `List books, optionally by status and sorted.

The page size defaults to the items-per-page setting.

Examples:
  arc-bookvault list                         # First page, insertion order
  arc-bookvault list --status reading        # Only books in progress
  arc-bookvault list --sort rating --order desc --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			filter, err := library.ParseFilter(status)
			if err != nil {
				return err
			}
			books := app.lib.GetByStatus(filter)
			if books, err = sortFromFlags(books, sortBy, order); err != nil {
				return err
			}

			total := len(books)
			if !all {
				if limit <= 0 {
					settings, err := app.store.LoadSettings(context.Background())
					if err != nil {
						return err
					}
					limit = settings.ItemsPerPage
				}
				if len(books) > limit {
					books = books[:limit]
				}
			}

			if done, err := out.Structured(cmd.OutOrStdout(), books); done {
				return err
			}
			w := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(w, "No books found in catalog.")
				fmt.Fprintln(w, "Use 'arc-bookvault add' or 'arc-bookvault import <file>' to add books.")
				return nil
			}
			if err := renderBooks(w, books, nil); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nShowing %s of %s book(s)\n", humanize.Comma(int64(len(books))), humanize.Comma(int64(total)))
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.FormatTable)
	cmd.Flags().StringVarP(&status, "status", "s", string(library.FilterAll), "Filter by status: all, to-read, reading, read")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by: title, author, date, pages, rating, status")
	cmd.Flags().StringVar(&order, "order", string(search.Asc), "Sort order: asc, desc")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (default: items-per-page setting)")
	cmd.Flags().BoolVar(&all, "all", false, "Show every book")

	return cmd
}

func sortFromFlags(books []*library.Book, sortBy, order string) ([]*library.Book, error) {
	if sortBy == "" {
		return books, nil
	}
	field, err := search.ParseSortField(sortBy)
	if err != nil {
		return nil, err
	}
	o, err := search.ParseSortOrder(order)
	if err != nil {
		return nil, err
	}
	return search.SortBooks(books, field, o), nil
}

// renderBooks prints the standard book table. mark, when set, highlights
// matches in the title and author columns.
func renderBooks(w io.Writer, books []*library.Book, mark func(string) string) error {
	if mark == nil {
		mark = func(s string) string { return s }
	}
	table := output.NewTable("ID", "Title", "Author", "Status", "Tags", "Rating", "Added")
	for _, b := range books {
		tags := output.Truncate(strings.Join(b.Tags, ", "), 25)
		rating := ""
		if b.Rating > 0 {
			rating = strings.Repeat("★", min(b.Rating, 5))
		}
		table.AddRow(
			shortID(b.ID),
			mark(output.Truncate(b.Title, 40)),
			mark(output.Truncate(b.Author, 25)),
			b.Status.Label(),
			tags,
			rating,
			humanize.Time(b.CreatedAt),
		)
	}
	return table.Render(w)
}
