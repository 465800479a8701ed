// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

// SortField names the attribute to order by.
type SortField string

const (
	SortTitle  SortField = "title"
	SortAuthor SortField = "author"
	SortDate   SortField = "date"
	SortPages  SortField = "pages"
	SortRating SortField = "rating"
	SortStatus SortField = "status"
)

// SortFields lists the recognized fields.
var SortFields = []SortField{SortTitle, SortAuthor, SortDate, SortPages, SortRating, SortStatus}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortField returns the field named by s.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortFields, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseSortOrder returns the order named by s.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q (choose asc, desc)", s)
}

type sortKey struct {
	book *library.Book
	text string
	num  float64
}

// SortBooks returns a sorted copy of books. The sort is stable, so equal keys
// keep their input order. An unknown field returns the copy unsorted and any
// order other than Desc sorts ascending.
func SortBooks(books []*library.Book, field SortField, order SortOrder) []*library.Book {
	keys := make([]sortKey, len(books))
	for i, b := range books {
		keys[i] = sortKey{book: b}
	}

	var compare func(a, b sortKey) int
	switch field {
	case SortTitle, SortAuthor, SortStatus:
		for i := range keys {
			keys[i].text = textKey(keys[i].book, field)
		}
		compare = func(a, b sortKey) int { return strings.Compare(a.text, b.text) }
	case SortDate:
		compare = func(a, b sortKey) int { return a.book.CreatedAt.Compare(b.book.CreatedAt) }
	case SortPages, SortRating:
		for i := range keys {
			keys[i].num = numKey(keys[i].book, field)
		}
		compare = func(a, b sortKey) int { return cmp.Compare(a.num, b.num) }
	}

	if compare != nil {
		if order == Desc {
			asc := compare
			compare = func(a, b sortKey) int { return asc(b, a) }
		}
		slices.SortStableFunc(keys, compare)
	}

	out := make([]*library.Book, len(keys))
	for i, k := range keys {
		out[i] = k.book
	}
	return out
}

func textKey(b *library.Book, field SortField) string {
	switch field {
	case SortTitle:
		return fold(b.Title)
	case SortAuthor:
		return fold(b.Author)
	}
	return string(b.Status)
}

func numKey(b *library.Book, field SortField) float64 {
	if field == SortRating {
		return float64(b.Rating)
	}
	if math.IsNaN(b.Pages) {
		return 0
	}
	return b.Pages
}
