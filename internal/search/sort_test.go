// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

func TestSortBooks(t *testing.T) {
	books := catalog()
	tests := []struct {
		field SortField
		order SortOrder
		want  string
	}{
		{SortTitle, Asc, "1,3,4,2"},
		{SortTitle, Desc, "2,4,3,1"},
		{SortAuthor, Asc, "1,3,4,2"},
		{SortDate, Asc, "1,2,3,4"},
		{SortDate, Desc, "4,3,2,1"},
		{SortPages, Asc, "3,4,2,1"},
		{SortRating, Desc, "1,2,4,3"},
		{SortStatus, Asc, "1,2,3,4"},
		{"colour", Desc, "1,2,3,4"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+string(tt.order), func(t *testing.T) {
			if got := ids(SortBooks(books, tt.field, tt.order)); got != tt.want {
				t.Fatalf("SortBooks = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortBooksStableOnTies(t *testing.T) {
	books := []*library.Book{
		{ID: "a", Rating: 3}, {ID: "b", Rating: 5}, {ID: "c", Rating: 3}, {ID: "d"}, {ID: "e", Rating: 3},
	}
	if got := ids(SortBooks(books, SortRating, Asc)); got != "d,a,c,e,b" {
		t.Fatalf("asc = %q", got)
	}
	if got := ids(SortBooks(books, SortRating, Desc)); got != "b,a,c,e,d" {
		t.Fatalf("desc keeps ties in input order: %q", got)
	}
}

func TestSortBooksProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		books := make([]*library.Book, n)
		for i := range books {
			books[i] = &library.Book{
				ID:     string(rune('a' + i)),
				Title:  rapid.StringMatching(`[A-Za-z ]{0,6}`).Draw(t, "title"),
				Rating: rapid.IntRange(0, 5).Draw(t, "rating"),
				Pages:  float64(rapid.IntRange(0, 900).Draw(t, "pages")),
			}
		}
		before := ids(books)
		field := rapid.SampledFrom(SortFields).Draw(t, "field")
		order := rapid.SampledFrom([]SortOrder{Asc, Desc}).Draw(t, "order")

		got := SortBooks(books, field, order)

		if ids(books) != before {
			t.Fatalf("input reordered: %s -> %s", before, ids(books))
		}
		if len(got) != len(books) {
			t.Fatalf("len = %d, want %d", len(got), len(books))
		}
		a, b := slices.Clone(books), slices.Clone(got)
		byID := func(x, y *library.Book) int {
			switch {
			case x.ID < y.ID:
				return -1
			case x.ID > y.ID:
				return 1
			}
			return 0
		}
		slices.SortFunc(a, byID)
		slices.SortFunc(b, byID)
		if ids(a) != ids(b) {
			t.Fatalf("not a permutation: %s vs %s", ids(books), ids(got))
		}
		if field == SortRating {
			for i := 1; i < len(got); i++ {
				prev, cur := got[i-1].Rating, got[i].Rating
				if (order == Asc && prev > cur) || (order == Desc && prev < cur) {
					t.Fatalf("ratings out of order at %d: %d then %d", i, prev, cur)
				}
			}
		}
	})
}

func TestParseSort(t *testing.T) {
	if f, err := ParseSortField(" Title "); err != nil || f != SortTitle {
		t.Fatalf("ParseSortField = %q, %v", f, err)
	}
	if _, err := ParseSortField("colour"); err == nil {
		t.Fatal("ParseSortField(colour) should fail")
	}
	if o, err := ParseSortOrder("DESC"); err != nil || o != Desc {
		t.Fatalf("ParseSortOrder = %q, %v", o, err)
	}
}
