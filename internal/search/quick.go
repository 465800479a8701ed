// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

const (
	quickRecentLimit = 5
	quickTaggedLimit = 5
	highRating       = 4
)

// QuickFilters holds precomputed groupings for one-click views.
type QuickFilters struct {
	RecentlyAdded []*library.Book                    `json:"recently_added" yaml:"recently_added"`
	HighlyRated   []*library.Book                    `json:"highly_rated" yaml:"highly_rated"`
	MostTagged    []*library.Book                    `json:"most_tagged" yaml:"most_tagged"`
	WithNotes     []*library.Book                    `json:"with_notes" yaml:"with_notes"`
	ByStatus      map[library.Status][]*library.Book `json:"by_status" yaml:"by_status"`
}

// GetQuickFilters computes the groupings over the whole collection.
func (e *Engine) GetQuickFilters() QuickFilters {
	return BuildQuickFilters(e.lib.GetAll())
}

// BuildQuickFilters computes the groupings over books.
func BuildQuickFilters(books []*library.Book) QuickFilters {
	qf := QuickFilters{
		RecentlyAdded: []*library.Book{},
		HighlyRated:   []*library.Book{},
		WithNotes:     []*library.Book{},
		ByStatus:      make(map[library.Status][]*library.Book, len(library.Statuses)),
	}
	for _, s := range library.Statuses {
		qf.ByStatus[s] = []*library.Book{}
	}

	for _, b := range books {
		if b.Rating >= highRating {
			qf.HighlyRated = append(qf.HighlyRated, b)
		}
		if strings.TrimSpace(b.Notes) != "" {
			qf.WithNotes = append(qf.WithNotes, b)
		}
		if _, ok := qf.ByStatus[b.Status]; ok {
			qf.ByStatus[b.Status] = append(qf.ByStatus[b.Status], b)
		}
	}

	qf.RecentlyAdded = head(SortBooks(books, SortDate, Desc), quickRecentLimit)
	qf.HighlyRated = SortBooks(qf.HighlyRated, SortRating, Desc)

	tagged := slices.DeleteFunc(slices.Clone(books), func(b *library.Book) bool {
		return len(b.Tags) == 0
	})
	slices.SortStableFunc(tagged, func(a, b *library.Book) int {
		return cmp.Compare(len(b.Tags), len(a.Tags))
	})
	qf.MostTagged = head(tagged, quickTaggedLimit)
	return qf
}

func head(books []*library.Book, n int) []*library.Book {
	if len(books) > n {
		books = books[:n]
	}
	if books == nil {
		return []*library.Book{}
	}
	return books
}

// Stats summarizes the collection for the search dashboard.
type Stats struct {
	TotalBooks         int     `json:"total_books" yaml:"total_books"`
	UniqueAuthors      int     `json:"unique_authors" yaml:"unique_authors"`
	UniqueTags         int     `json:"unique_tags" yaml:"unique_tags"`
	BooksWithNotes     int     `json:"books_with_notes" yaml:"books_with_notes"`
	AverageTagsPerBook float64 `json:"average_tags_per_book" yaml:"average_tags_per_book"`
}

// SearchStats computes Stats over the whole collection. Authors and tags are
// counted case-insensitively.
func (e *Engine) SearchStats() Stats {
	return ComputeStats(e.lib.GetAll())
}

// ComputeStats computes Stats over books.
func ComputeStats(books []*library.Book) Stats {
	authors := make(map[string]struct{})
	tags := make(map[string]struct{})
	var s Stats
	var tagTotal int
	for _, b := range books {
		if b.Author != "" {
			authors[fold(b.Author)] = struct{}{}
		}
		for _, t := range b.Tags {
			tags[fold(t)] = struct{}{}
		}
		tagTotal += len(b.Tags)
		if strings.TrimSpace(b.Notes) != "" {
			s.BooksWithNotes++
		}
	}
	s.TotalBooks = len(books)
	s.UniqueAuthors = len(authors)
	s.UniqueTags = len(tags)
	if len(books) > 0 {
		s.AverageTagsPerBook = float64(tagTotal) / float64(len(books))
	}
	return s
}
