// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/output"
)

// bookFlags binds the editable book fields.
type bookFlags struct {
	title, author, status, isbn, notes, pages string
	tags                                      []string
	rating                                    int
}

func (f *bookFlags) register(cmd *cobra.Command, defaultStatus string) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title")
	cmd.Flags().StringVar(&f.author, "author", "", "Author name")
	cmd.Flags().StringVarP(&f.status, "status", "s", defaultStatus, "Reading status: to-read, reading, read")
	cmd.Flags().StringVar(&f.isbn, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "Tag (repeatable or comma-separated)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.pages, "pages", "", "Page count")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "Rating 1-5 (0 = unrated)")
}

func (f *bookFlags) input() library.BookInput {
	return library.BookInput{
		Title:  f.title,
		Author: f.author,
		Status: f.status,
		ISBN:   f.isbn,
		Tags:   f.tags,
		Notes:  f.notes,
		Rating: f.rating,
		Pages:  f.pages,
	}
}

// patch holds only the flags the user actually set.
func (f *bookFlags) patch(cmd *cobra.Command) (library.BookPatch, error) {
	var p library.BookPatch
	changed := cmd.Flags().Changed
	if changed("title") {
		p.Title = &f.title
	}
	if changed("author") {
		p.Author = &f.author
	}
	if changed("status") {
		s, err := library.ParseStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if changed("isbn") {
		p.ISBN = &f.isbn
	}
	if changed("tag") {
		p.Tags = &f.tags
	}
	if changed("notes") {
		p.Notes = &f.notes
	}
	if changed("rating") {
		p.Rating = &f.rating
	}
	if changed("pages") {
		if res := library.ValidateNumericField(f.pages, "Pages"); !res.Valid {
			return p, errors.New(res.Error)
		}
		n, _ := strconv.ParseFloat(strings.TrimSpace(f.pages), 64)
		p.Pages = &n
	}
	return p, nil
}

func newAddCmd(app *App) *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add a book. Title, author and status are required.

Examples:
  arc-bookvault add --title "Dune" --author "Frank Herbert"
  arc-bookvault add --title "Kindred" --author "Octavia Butler" --status read --rating 5 --tag sf,classic`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := app.lib.Add(f.input())
			var verr *library.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s", strings.Join(verr.Result.Errors, "\n"))
			}
			if book == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s by %s\n", shortID(book.ID), book.Title, book.Author)
			return softFail(cmd.ErrOrStderr(), err)
		},
	}
	f.register(cmd, string(library.StatusToRead))
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a book",
		Long: `Change the given fields of a book; other fields keep their values.
Passing --tag replaces the whole tag list.

Examples:
  arc-bookvault edit 3f2a --status read --rating 4
  arc-bookvault edit 3f2a --tag sf --tag favourites`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := app.resolveBook(args[0])
			if err != nil {
				return err
			}
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.New("nothing to change (pass at least one field flag)")
			}

			merged := patch.ApplyTo(library.InputFromBook(book))
			if res := library.ValidateBook(merged, app.lib.GetAll(), book.ID); !res.Valid {
				return fmt.Errorf("%s", strings.Join(res.Errors, "\n"))
			}

			updated, err := app.lib.Update(book.ID, patch)
			if updated == nil && err == nil {
				return fmt.Errorf("book not found: %s", book.ID)
			}
			if updated != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", shortID(updated.ID), updated.Title)
			}
			return softFail(cmd.ErrOrStderr(), err)
		},
	}
	f.register(cmd, "")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a book from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := app.resolveBook(args[0])
			if err != nil {
				return err
			}
			err = app.lib.Delete(book.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", shortID(book.ID), book.Title)
			return softFail(cmd.ErrOrStderr(), err)
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var out output.Options

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			book, err := app.resolveBook(args[0])
			if err != nil {
				return err
			}
			if done, err := out.Structured(cmd.OutOrStdout(), book); done {
				return err
			}
			printBook(cmd.OutOrStdout(), book)
			return nil
		},
	}
	out.AddOutputFlags(cmd, output.FormatTable)
	return cmd
}

func printBook(w io.Writer, b *library.Book) {
	fmt.Fprintf(w, "%s\n", titleStyle.Render(b.Title))
	fmt.Fprintf(w, "  by %s\n\n", b.Author)
	fmt.Fprintf(w, "ID:      %s\n", b.ID)
	fmt.Fprintf(w, "Status:  %s\n", b.Status.Label())
	if b.ISBN != "" {
		fmt.Fprintf(w, "ISBN:    %s\n", b.ISBN)
	}
	if b.Pages > 0 {
		fmt.Fprintf(w, "Pages:   %s\n", humanize.Ftoa(b.Pages))
	}
	fmt.Fprintf(w, "Rating:  %s\n", stars(b.Rating))
	if len(b.Tags) > 0 {
		fmt.Fprintf(w, "Tags:    %s\n", strings.Join(b.Tags, ", "))
	}
	fmt.Fprintf(w, "Added:   %s (%s)\n", b.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(b.CreatedAt))
	if !b.UpdatedAt.IsZero() && !b.UpdatedAt.Equal(b.CreatedAt) {
		fmt.Fprintf(w, "Updated: %s\n", humanize.Time(b.UpdatedAt))
	}
	if strings.TrimSpace(b.Notes) != "" {
		fmt.Fprintf(w, "\n%s\n", b.Notes)
	}
}

func stars(rating int) string {
	if rating <= 0 {
		return "unrated"
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-min(rating, 5))
}
