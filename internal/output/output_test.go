// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestOptionsResolve(t *testing.T) {
	tests := []struct {
		args []string
		want Format
	}{
		{nil, FormatTable},
		{[]string{"--json"}, FormatJSON},
		{[]string{"--yaml"}, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			var o Options
			cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
			o.AddOutputFlags(cmd, FormatTable)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			if err := o.Resolve(); err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !o.Is(tt.want) {
				t.Fatalf("format = %q, want %q", o.format, tt.want)
			}
		})
	}
}

func TestStructured(t *testing.T) {
	o := Options{format: FormatYAML}
	var buf bytes.Buffer
	done, err := o.Structured(&buf, map[string]int{"total": 3})
	if err != nil || !done {
		t.Fatalf("Structured = %v, %v", done, err)
	}
	if strings.TrimSpace(buf.String()) != "total: 3" {
		t.Fatalf("YAML = %q", buf.String())
	}

	o = Options{format: FormatTable}
	if done, _ := o.Structured(&buf, nil); done {
		t.Fatal("table format should be left to the caller")
	}
}

func TestTableRender(t *testing.T) {
	tbl := NewTable("ID", "Title")
	tbl.AddRow("1", "Dune")
	tbl.AddRow("2")
	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "Title", "Dune"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d", tbl.Len())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("The Left Hand of Darkness", 12); got != "The Left..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("Öl", 5); got != "Öl" {
		t.Fatalf("short string changed: %q", got)
	}
}
