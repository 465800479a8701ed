// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

var exportFormats = []string{"json", "yaml", "markdown", "bibtex", "ris"}

func newExportCmd(app *App) *cobra.Command {
	var (
		format string
		path   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to JSON, YAML, Markdown, BibTeX or RIS",
		Long: `Export books for backup or for use in other tools.

The json format is the import envelope: 'arc-bookvault import' reads it back.

Examples:
  arc-bookvault export -o backup.json
  arc-bookvault export --format bibtex --status read > read.bib`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := library.ParseFilter(status)
			if err != nil {
				return err
			}
			books := app.lib.GetByStatus(filter)

			data, err := exportBooks(format, books, app.now())
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}

			if path == "-" || path == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d book(s) to %s (%s)\n",
				len(books), path, humanize.Bytes(uint64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVarP(&path, "output", "o", "-", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&status, "status", "s", string(library.FilterAll), "Only export books with this status")

	return cmd
}

func exportBooks(format string, books []*library.Book, now time.Time) ([]byte, error) {
	switch format {
	case "json":
		data, err := library.MarshalEnvelope(library.NewEnvelope(books, now))
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(library.NewEnvelope(books, now))
	case "markdown":
		return exportMarkdown(books, now), nil
	case "bibtex":
		return exportBibTeX(books), nil
	case "ris":
		return exportRIS(books), nil
	}
	return nil, fmt.Errorf("unsupported format: %s (choose %s)", format, strings.Join(exportFormats, ", "))
}

func exportBibTeX(books []*library.Book) []byte {
	var buf bytes.Buffer
	keys := make(map[string]int)

	for _, b := range books {
		key := citationKey(b)
		keys[key]++
		if n := keys[key]; n > 1 {
			key = fmt.Sprintf("%s%c", key, 'a'+n-1)
		}

		fields := [][2]string{
			{"title", escapeBibTeX(b.Title)},
			{"author", escapeBibTeX(b.Author)},
			{"year", fmt.Sprint(b.CreatedAt.Year())},
		}
		if b.ISBN != "" {
			fields = append(fields, [2]string{"isbn", b.ISBN})
		}
		if b.Pages > 0 {
			fields = append(fields, [2]string{"pagetotal", humanize.Ftoa(b.Pages)})
		}
		if len(b.Tags) > 0 {
			fields = append(fields, [2]string{"keywords", escapeBibTeX(strings.Join(b.Tags, ", "))})
		}
		if b.Notes != "" {
			fields = append(fields, [2]string{"note", escapeBibTeX(b.Notes)})
		}

		fmt.Fprintf(&buf, "@book{%s,\n", key)
		for i, f := range fields {
			sep := ","
			if i == len(fields)-1 {
				sep = ""
			}
			fmt.Fprintf(&buf, "  %s = {%s}%s\n", f[0], f[1], sep)
		}
		buf.WriteString("}\n\n")
	}
	return buf.Bytes()
}

// citationKey is the author surname followed by the year added.
func citationKey(b *library.Book) string {
	key := b.Surname()
	if key == "" {
		key = "unknown"
	}
	var clean strings.Builder
	for _, r := range key {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			clean.WriteRune(r)
		}
	}
	if clean.Len() == 0 {
		clean.WriteString("book")
	}
	return fmt.Sprintf("%s%d", clean.String(), b.CreatedAt.Year())
}

func escapeBibTeX(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "\\{")
	s = strings.ReplaceAll(s, "}", "\\}")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

func exportMarkdown(books []*library.Book, now time.Time) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Book Catalog\n\n")
	fmt.Fprintf(&buf, "Generated: %s\n\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "Total books: %d\n\n---\n\n", len(books))

	for _, b := range books {
		fmt.Fprintf(&buf, "## %s\n\n", b.Title)
		fmt.Fprintf(&buf, "**Author:** %s\n\n", b.Author)
		fmt.Fprintf(&buf, "**Status:** %s\n\n", b.Status.Label())
		if b.ISBN != "" {
			fmt.Fprintf(&buf, "**ISBN:** %s\n\n", b.ISBN)
		}
		if b.Pages > 0 {
			fmt.Fprintf(&buf, "**Pages:** %s\n\n", humanize.Ftoa(b.Pages))
		}
		if b.Rating > 0 {
			fmt.Fprintf(&buf, "**Rating:** %d/5\n\n", b.Rating)
		}
		if len(b.Tags) > 0 {
			fmt.Fprintf(&buf, "**Tags:** %s\n\n", strings.Join(b.Tags, ", "))
		}
		if strings.TrimSpace(b.Notes) != "" {
			buf.WriteString("**Notes**\n\n")
			buf.WriteString(b.Notes + "\n\n")
		}
		buf.WriteString("---\n\n")
	}
	return buf.Bytes()
}

// exportRIS writes one BOOK record per book.
func exportRIS(books []*library.Book) []byte {
	var buf bytes.Buffer

	for _, b := range books {
		buf.WriteString("TY  - BOOK\n")
		fmt.Fprintf(&buf, "TI  - %s\n", b.Title)
		fmt.Fprintf(&buf, "AU  - %s\n", b.Author)
		fmt.Fprintf(&buf, "PY  - %d\n", b.CreatedAt.Year())
		if b.ISBN != "" {
			fmt.Fprintf(&buf, "SN  - %s\n", b.ISBN)
		}
		if b.Pages > 0 {
			fmt.Fprintf(&buf, "SP  - %s\n", humanize.Ftoa(b.Pages))
		}
		for _, tag := range b.Tags {
			fmt.Fprintf(&buf, "KW  - %s\n", tag)
		}
		if b.Notes != "" {
			fmt.Fprintf(&buf, "N1  - %s\n", strings.ReplaceAll(b.Notes, "\n", " "))
		}
		buf.WriteString("ER  - \n\n")
	}
	return buf.Bytes()
}
