// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status represents the reading progress of a book.
type Status string

const (
	StatusToRead  Status = "to-read"
	StatusReading Status = "reading"
	StatusRead    Status = "read"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusToRead, StatusReading, StatusRead}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusToRead, StatusReading, StatusRead:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q (choose to-read, reading, read)", s)
}

// Label is the human-readable status text.
func (s Status) Label() string {
	switch s {
	case StatusToRead:
		return "To Read"
	case StatusReading:
		return "Reading"
	case StatusRead:
		return "Read"
	}
	return string(s)
}

// Filter selects books by status. FilterAll matches every book.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterToRead  Filter = Filter(StatusToRead)
	FilterReading Filter = Filter(StatusReading)
	FilterRead    Filter = Filter(StatusRead)
)

// ParseFilter returns the Filter named by s.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterToRead, FilterReading, FilterRead:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (choose all, to-read, reading, read)", s)
}

// Matches reports whether a book with status s passes the filter.
func (f Filter) Matches(s Status) bool {
	return f == FilterAll || Status(f) == s
}

// Book is one catalog entry.
type Book struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Author    string    `json:"author" yaml:"author"`
	Status    Status    `json:"status" yaml:"status"`
	ISBN      string    `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Rating    int       `json:"rating,omitempty" yaml:"rating,omitempty"` // 1-5, 0 = unrated
	Pages     float64   `json:"pages,omitempty" yaml:"pages,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Clone returns a deep copy of b.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	c.Tags = append([]string(nil), b.Tags...)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

// Surname is the last whitespace-delimited token of the author, lower-cased.
func (b *Book) Surname() string {
	return surname(b.Author)
}

// BookInput is the form-shaped data a book is created from.
// Pages is kept as text so its format can be validated.
type BookInput struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Status string   `json:"status"`
	ISBN   string   `json:"isbn,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Rating int      `json:"rating,omitempty"`
	Pages  string   `json:"pages,omitempty"`
}

// InputFromBook converts a stored book back into form data.
func InputFromBook(b *Book) BookInput {
	return BookInput{
		Title:  b.Title,
		Author: b.Author,
		Status: string(b.Status),
		ISBN:   b.ISBN,
		Tags:   append([]string(nil), b.Tags...),
		Notes:  b.Notes,
		Rating: b.Rating,
		Pages:  formatPages(b.Pages),
	}
}

// BookPatch is a partial update. Nil fields are left unchanged.
type BookPatch struct {
	Title  *string   `json:"title,omitempty"`
	Author *string   `json:"author,omitempty"`
	Status *Status   `json:"status,omitempty"`
	ISBN   *string   `json:"isbn,omitempty"`
	Tags   *[]string `json:"tags,omitempty"`
	Notes  *string   `json:"notes,omitempty"`
	Rating *int      `json:"rating,omitempty"`
	Pages  *float64  `json:"pages,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Status == nil && p.ISBN == nil &&
		p.Tags == nil && p.Notes == nil && p.Rating == nil && p.Pages == nil
}

// ApplyTo merges the patch over in, for validating an update before it is made.
func (p BookPatch) ApplyTo(in BookInput) BookInput {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Author != nil {
		in.Author = *p.Author
	}
	if p.Status != nil {
		in.Status = string(*p.Status)
	}
	if p.ISBN != nil {
		in.ISBN = *p.ISBN
	}
	if p.Tags != nil {
		in.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	if p.Rating != nil {
		in.Rating = *p.Rating
	}
	if p.Pages != nil {
		in.Pages = formatPages(*p.Pages)
	}
	return in
}

// apply merges the patch into b in place. Only keys present in the patch change.
func (p BookPatch) apply(b *Book) {
	if p.Title != nil {
		b.Title = NormalizeText(*p.Title)
	}
	if p.Author != nil {
		b.Author = NormalizeText(*p.Author)
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ISBN != nil {
		b.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.Tags != nil {
		b.Tags = cleanTags(*p.Tags)
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
}

// NewBook builds a fully populated book from validated input.
func NewBook(in BookInput, id string, now time.Time) *Book {
	pages, _ := strconv.ParseFloat(strings.TrimSpace(in.Pages), 64)
	return &Book{
		ID:        id,
		Title:     NormalizeText(in.Title),
		Author:    NormalizeText(in.Author),
		Status:    Status(strings.TrimSpace(in.Status)),
		ISBN:      strings.TrimSpace(in.ISBN),
		Tags:      cleanTags(in.Tags),
		Notes:     in.Notes,
		Rating:    in.Rating,
		Pages:     pages,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeText collapses internal whitespace runs to a single space and trims.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanTags trims tags and drops empties and duplicates, keeping first-seen order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func formatPages(p float64) string {
	if p == 0 {
		return ""
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func surname(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}
