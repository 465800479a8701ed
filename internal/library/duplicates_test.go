// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"math"
	"testing"
)

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Dune", "Dune", 1},
		{"Dune!", "dune", 1},
		{"The Left Hand of Darkness", "Left Hand of Darkness", 0.75},
		{"Dune", "Kindred", 0},
		{"On It", "At Us", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := TitleSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("TitleSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFindDuplicates(t *testing.T) {
	books := []*Book{
		{ID: "1", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "9780441478125"},
		{ID: "2", Title: "Left Hand of Darkness", Author: "U. Le Guin"},
		{ID: "3", Title: "Dune", Author: "Frank Herbert", ISBN: "0441013597"},
		{ID: "4", Title: "Dune Messiah", Author: "Frank Herbert", ISBN: "0441013597"},
		{ID: "5", Title: "Children of Dune", Author: "Brian Herbert"},
	}

	pairs := FindDuplicates(books, DefaultDuplicateThreshold)

	want := []struct {
		a, b   string
		reason string
	}{
		{"3", "4", "matching ISBN"},
		{"1", "2", "title similarity 0.75"},
		{"3", "5", "shared author surname"},
		{"4", "5", "shared author surname"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("FindDuplicates returned %d pairs, want %d: %+v", len(pairs), len(want), pairs)
	}
	for i, w := range want {
		p := pairs[i]
		if p.A.ID != w.a || p.B.ID != w.b || p.Reason != w.reason {
			t.Errorf("pair %d = (%s, %s, %q), want (%s, %s, %q)", i, p.A.ID, p.B.ID, p.Reason, w.a, w.b, w.reason)
		}
	}
}

func TestFindDuplicatesThreshold(t *testing.T) {
	books := []*Book{
		{ID: "1", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
		{ID: "2", Title: "Left Hand of Darkness", Author: "Someone Else"},
	}
	if got := FindDuplicates(books, 0.8); len(got) != 0 {
		t.Fatalf("FindDuplicates(0.8) = %+v, want none", got)
	}
	if got := FindDuplicates(books, 0.5); len(got) != 1 {
		t.Fatalf("FindDuplicates(0.5) = %+v, want one pair", got)
	}
	if got := FindDuplicates(books[:1], 0); len(got) != 0 {
		t.Fatalf("single book produced pairs: %+v", got)
	}
}
