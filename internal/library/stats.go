// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TagCount is a tag and how many books carry it.
type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// String renders "tag (n)", or "None" for the zero value.
func (t TagCount) String() string {
	if t.Count == 0 {
		return "None"
	}
	return fmt.Sprintf("%s (%d)", t.Tag, t.Count)
}

// DayCount is the number of books created on one local calendar day.
type DayCount struct {
	Day   time.Time `json:"day" yaml:"day"`
	Label string    `json:"label" yaml:"label"`
	Count int       `json:"count" yaml:"count"`
}

// Stats is the dashboard summary of the collection.
type Stats struct {
	Total     int            `json:"total" yaml:"total"`
	WithNotes int            `json:"with_notes" yaml:"with_notes"`
	TopTag    TagCount       `json:"top_tag" yaml:"top_tag"`
	LastWeek  []DayCount     `json:"last_7_days" yaml:"last_7_days"`
	ByStatus  map[Status]int `json:"by_status" yaml:"by_status"`
}

// Total is the number of books.
func (l *Library) Total() int {
	return l.Len()
}

// NotesCount is the number of books with non-blank notes.
func (l *Library) NotesCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, b := range l.books {
		if strings.TrimSpace(b.Notes) != "" {
			n++
		}
	}
	return n
}

// TopTag returns the most frequent tag. Ties go to the tag seen first when
// scanning books in collection order. An empty collection yields the zero TagCount.
func (l *Library) TopTag() TagCount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[string]int)
	var order []string
	for _, b := range l.books {
		for _, t := range b.Tags {
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	var top TagCount
	for _, t := range order {
		if counts[t] > top.Count {
			top = TagCount{Tag: t, Count: counts[t]}
		}
	}
	return top
}

// Last7Days counts books created on each of the seven local calendar days
// ending with the day containing now, oldest first.
func (l *Library) Last7Days(now time.Time) []DayCount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loc := now.Location()
	y, m, d := now.Date()
	days := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		start := time.Date(y, m, d-i, 0, 0, 0, 0, loc)
		end := time.Date(y, m, d-i+1, 0, 0, 0, 0, loc)
		n := 0
		for _, b := range l.books {
			c := b.CreatedAt.In(loc)
			if !c.Before(start) && c.Before(end) {
				n++
			}
		}
		days = append(days, DayCount{Day: start, Label: start.Format("Jan 2"), Count: n})
	}
	return days
}

// RecentBooks returns up to limit books, most recently updated first.
func (l *Library) RecentBooks(limit int) []*Book {
	books := l.GetAll()
	sort.SliceStable(books, func(i, j int) bool {
		return lastTouched(books[i]).After(lastTouched(books[j]))
	})
	if limit > 0 && len(books) > limit {
		books = books[:limit]
	}
	return books
}

// Stats gathers the dashboard figures.
func (l *Library) Stats(now time.Time) Stats {
	byStatus := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		byStatus[s] = len(l.GetByStatus(Filter(s)))
	}
	return Stats{
		Total:     l.Total(),
		WithNotes: l.NotesCount(),
		TopTag:    l.TopTag(),
		LastWeek:  l.Last7Days(now),
		ByStatus:  byStatus,
	}
}

func lastTouched(b *Book) time.Time {
	if !b.UpdatedAt.IsZero() {
		return b.UpdatedAt
	}
	return b.CreatedAt
}
