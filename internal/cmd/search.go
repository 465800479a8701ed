// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/output"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

const didYouMeanLimit = 3

func newSearchCmd(app *App) *cobra.Command {
	var (
		out           output.Options
		regex         bool
		caseSensitive bool
		status        string
		tags          []string
		from, to      string
		minRating     int
		sortBy, order string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search books by text or regular expression",
		Long: `Search titles, authors, ISBNs, notes and tags.

Regex and case-insensitive matching default to the search.regex and
search.case_insensitive config keys. Passing --tag, --from, --to or
--min-rating switches to advanced search, which always matches text
case-insensitively and ignores --regex.

Examples:
  arc-bookvault search dune                       # Text search
  arc-bookvault search '^The' --regex             # Titles starting with "The"
  arc-bookvault search --status read --min-rating 4
  arc-bookvault search le guin --tag sf --from 2024-01-01 --sort date --order desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			opts := app.searchOptions(cmd, regex, caseSensitive)

			advanced := len(tags) > 0 || from != "" || to != "" || cmd.Flags().Changed("min-rating")
			var books []*library.Book
			if advanced {
				c, err := criteriaFromFlags(query, status, tags, from, to, minRating, cmd.Flags().Changed("min-rating"))
				if err != nil {
					return err
				}
				books = app.engine.AdvancedSearch(c)
				opts = search.Options{CaseInsensitive: true}
			} else {
				if err := checkQuery(query, opts); err != nil {
					return err
				}
				if _, err := app.engine.SetFilter(status); err != nil {
					return err
				}
				books = app.engine.SearchBooks(query, opts)
			}

			books, err := sortFromFlags(books, sortBy, order)
			if err != nil {
				return err
			}
			if done, err := out.Structured(cmd.OutOrStdout(), books); done {
				return err
			}

			w := cmd.OutOrStdout()
			if len(books) == 0 {
				fmt.Fprintf(w, "No books found matching %q\n", query)
				if query != "" {
					if alt := app.engine.DidYouMean(query, didYouMeanLimit); len(alt) > 0 {
						fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(alt, ", "))
					}
				}
				return nil
			}

			fmt.Fprintf(w, "Found %d result(s):\n\n", len(books))
			mark := func(s string) string {
				return app.engine.Highlight(s, query, opts, markMatch)
			}
			return renderBooks(w, books, mark)
		},
	}

	out.AddOutputFlags(cmd, output.FormatTable)
	cmd.Flags().BoolVarP(&regex, "regex", "r", false, "Treat the query as a regular expression")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "c", false, "Match case exactly")
	cmd.Flags().StringVarP(&status, "status", "s", string(library.FilterAll), "Filter by status: all, to-read, reading, read")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Match books with any of these tags (substring, case-insensitive)")
	cmd.Flags().StringVar(&from, "from", "", "Added on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Added on or before YYYY-MM-DD")
	cmd.Flags().IntVar(&minRating, "min-rating", 0, "Minimum rating 1-5")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by: title, author, date, pages, rating, status")
	cmd.Flags().StringVar(&order, "order", string(search.Asc), "Sort order: asc, desc")

	return cmd
}

// checkQuery surfaces validation problems the engine would only log.
func checkQuery(query string, opts search.Options) error {
	res := library.ValidateSearchQuery(query)
	if !res.Valid {
		return errors.New(res.Error)
	}
	if opts.UseRegex && res.Query != "" {
		if p := library.ValidateRegexPattern(res.Query, opts.CaseInsensitive); !p.Valid {
			return errors.New(p.Error)
		}
	}
	return nil
}

func criteriaFromFlags(query, status string, tags []string, from, to string, minRating int, ratingSet bool) (search.Criteria, error) {
	c := search.Criteria{Query: query, Tags: tags}

	f, err := library.ParseFilter(status)
	if err != nil {
		return c, err
	}
	c.Status = f

	if from != "" || to != "" {
		r := &search.DateRange{End: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}
		if from != "" {
			start, err := parseDay(from)
			if err != nil {
				return c, err
			}
			r.Start = start
		}
		if to != "" {
			end, err := parseDay(to)
			if err != nil {
				return c, err
			}
			r.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		c.DateRange = r
	}

	if ratingSet {
		c.MinRating = &minRating
	}
	return c, nil
}

// parseDay reads a YYYY-MM-DD date as local midnight.
func parseDay(s string) (time.Time, error) {
	if res := library.ValidateDateField(s); !res.Valid {
		return time.Time{}, errors.New(res.Error)
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func newSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest titles, authors and tags containing the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range app.engine.GetSearchSuggestions(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if clearAll {
				app.engine.ClearHistory()
				fmt.Fprintln(w, "Search history cleared.")
				return nil
			}
			h := app.engine.History()
			if len(h) == 0 {
				fmt.Fprintln(w, "No recent searches.")
				return nil
			}
			for i, q := range h {
				fmt.Fprintf(w, "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget all recent searches")
	return cmd
}

func newQuickCmd(app *App) *cobra.Command {
	var out output.Options

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Show quick views: recent, top rated, most tagged, with notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			qf := app.engine.GetQuickFilters()
			if done, err := out.Structured(cmd.OutOrStdout(), qf); done {
				return err
			}

			w := cmd.OutOrStdout()
			sections := []struct {
				name  string
				books []*library.Book
			}{
				{"Recently added", qf.RecentlyAdded},
				{"Highly rated", qf.HighlyRated},
				{"Most tagged", qf.MostTagged},
				{"With notes", qf.WithNotes},
			}
			for _, s := range sections {
				printSection(w, s.name, s.books)
			}
			for _, st := range library.Statuses {
				printSection(w, st.Label(), qf.ByStatus[st])
			}
			return nil
		},
	}
	out.AddOutputFlags(cmd, output.FormatTable)
	return cmd
}

func printSection(w io.Writer, name string, books []*library.Book) {
	fmt.Fprintf(w, "%s (%d)\n", titleStyle.Render(name), len(books))
	if len(books) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  none"))
	}
	for _, b := range books {
		fmt.Fprintf(w, "  %s  %s, %s\n", shortID(b.ID), output.Truncate(b.Title, 50), b.Author)
	}
	fmt.Fprintln(w)
}
