// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package output renders command results as terminal tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Format selects how a command prints its result.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Options binds the --json and --yaml flags of a command.
type Options struct {
	json   bool
	yaml   bool
	format Format
}

// AddOutputFlags registers the format flags on cmd. def is used when neither is set.
func (o *Options) AddOutputFlags(cmd *cobra.Command, def Format) {
	o.format = def
	cmd.Flags().BoolVar(&o.json, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&o.yaml, "yaml", false, "Print YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// Resolve settles the chosen format after flag parsing.
func (o *Options) Resolve() error {
	switch {
	case o.json && o.yaml:
		return fmt.Errorf("choose one of --json or --yaml")
	case o.json:
		o.format = FormatJSON
	case o.yaml:
		o.format = FormatYAML
	case o.format == "":
		o.format = FormatTable
	}
	return nil
}

// Is reports whether f is the resolved format.
func (o *Options) Is(f Format) bool { return o.format == f }

// Structured writes v as JSON or YAML and reports whether it did. Table
// output is left to the caller.
func (o *Options) Structured(w io.Writer, v any) (bool, error) {
	switch o.format {
	case FormatJSON:
		return true, JSON(w, v)
	case FormatYAML:
		return true, YAML(w, v)
	}
	return false, nil
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// Table accumulates rows for a bordered terminal table.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len is the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

// Truncate shortens s to at most n characters, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
