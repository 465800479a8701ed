// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"strings"
	"time"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

// DateRange bounds the creation date, inclusive at both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r *DateRange) contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Criteria combines conditions with AND. Zero values are skipped: an empty
// Query, Status "" or "all", no Tags, a nil DateRange or a nil MinRating.
type Criteria struct {
	Query     string
	Status    library.Filter
	Tags      []string
	DateRange *DateRange
	MinRating *int
}

// AdvancedSearch applies c to the whole collection, ignoring the active filter.
// Text matching is case-insensitive over the same haystack as SearchBooks.
func (e *Engine) AdvancedSearch(c Criteria) []*library.Book {
	var preds []func(*library.Book) bool

	if c.Query != "" {
		res := library.ValidateSearchQuery(c.Query)
		if !res.Valid {
			e.log.Warn("invalid search query", "query", c.Query, "err", res.Error)
			return []*library.Book{}
		}
		if res.Query != "" {
			preds = append(preds, textMatcher(res.Query, true))
		}
	}

	if c.Status != "" && c.Status != library.FilterAll {
		status := library.Status(c.Status)
		preds = append(preds, func(b *library.Book) bool { return b.Status == status })
	}

	var wanted []string
	for _, t := range c.Tags {
		if t = strings.TrimSpace(t); t != "" {
			wanted = append(wanted, fold(t))
		}
	}
	if len(wanted) > 0 {
		preds = append(preds, func(b *library.Book) bool { return anyTagMatches(b.Tags, wanted) })
	}

	if c.DateRange != nil {
		r := c.DateRange
		preds = append(preds, func(b *library.Book) bool { return r.contains(b.CreatedAt) })
	}

	if c.MinRating != nil {
		floor := *c.MinRating
		preds = append(preds, func(b *library.Book) bool { return b.Rating >= floor })
	}

	all := e.lib.GetAll()
	out := make([]*library.Book, 0, len(all))
next:
	for _, b := range all {
		for _, p := range preds {
			if !p(b) {
				continue next
			}
		}
		out = append(out, b)
	}
	return out
}

func anyTagMatches(tags, wanted []string) bool {
	for _, t := range tags {
		ft := fold(t)
		for _, w := range wanted {
			if strings.Contains(ft, w) {
				return true
			}
		}
	}
	return false
}
