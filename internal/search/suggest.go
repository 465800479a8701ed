// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

// MaxSuggestions caps GetSearchSuggestions.
const MaxSuggestions = 10

// GetSearchSuggestions returns up to MaxSuggestions distinct titles, authors
// and tags containing query, case-folded. Queries shorter than two characters
// yield nothing. Order is first encounter in collection order, visiting each
// book's title, author, then tags.
func (e *Engine) GetSearchSuggestions(query string) []string {
	return Suggestions(e.lib.GetAll(), query)
}

// Suggestions is GetSearchSuggestions over an explicit book list.
func Suggestions(books []*library.Book, query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []string{}
	}
	q := fold(query)

	out := make([]string, 0, MaxSuggestions)
	seen := make(map[string]struct{})
	consider := func(s string) bool {
		if s == "" {
			return false
		}
		if _, ok := seen[s]; ok {
			return false
		}
		if !strings.Contains(fold(s), q) {
			return false
		}
		seen[s] = struct{}{}
		out = append(out, s)
		return len(out) == MaxSuggestions
	}

	for _, b := range books {
		if consider(b.Title) || consider(b.Author) {
			return out
		}
		for _, t := range b.Tags {
			if consider(t) {
				return out
			}
		}
	}
	return out
}

// candidates implements fuzzy.Source over distinct catalog strings.
type candidates []string

func (c candidates) String(i int) string { return c[i] }
func (c candidates) Len() int            { return len(c) }

// DidYouMean ranks titles, authors and tags by fuzzy similarity to query and
// returns at most limit of them, best first. It is meant for empty result sets.
func (e *Engine) DidYouMean(query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []string{}
	}

	var src candidates
	seen := make(map[string]struct{})
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		src = append(src, s)
	}
	for _, b := range e.lib.GetAll() {
		add(b.Title)
		add(b.Author)
		for _, t := range b.Tags {
			add(t)
		}
	}

	matches := fuzzy.FindFrom(query, src)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
