// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package search implements read-only queries over the catalog: text and
// regex search, the active status filter, advanced criteria, sorting, match
// highlighting, suggestions and quick filters. Nothing here mutates a book.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

// HistoryCapacity is the number of distinct queries remembered.
const HistoryCapacity = 10

const patternCacheSize = 128

// ErrInvalidFilter is returned by SetFilter for unknown filter names.
var ErrInvalidFilter = errors.New("invalid filter")

// Options selects the matching mode.
type Options struct {
	UseRegex        bool
	CaseInsensitive bool
}

// HistoryStore persists the search history between sessions.
type HistoryStore interface {
	LoadHistory(ctx context.Context) ([]string, error)
	SaveHistory(ctx context.Context, history []string) error
}

// Engine runs searches against a Library.
type Engine struct {
	lib      *library.Library
	log      *slog.Logger
	store    HistoryStore
	patterns *lru.Cache[patternKey, *Pattern]

	mu      sync.Mutex
	history []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryStore makes the search history survive restarts.
func WithHistoryStore(s HistoryStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger used for query and filter warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns an Engine over lib and loads any saved history.
func NewEngine(lib *library.Library, opts ...Option) (*Engine, error) {
	cache, err := lru.New[patternKey, *Pattern](patternCacheSize)
	if err != nil {
		return nil, fmt.Errorf("pattern cache: %w", err)
	}
	e := &Engine{
		lib:      lib,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		patterns: cache,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store != nil {
		h, err := e.store.LoadHistory(context.Background())
		if err != nil {
			e.log.Warn("load search history failed", "err", err)
		}
		e.history = trimHistory(h)
	}
	return e, nil
}

// SearchBooks returns the books in the active filter view that match query.
// An empty query returns the filter view itself. An invalid query or regex
// yields no results and a warning, never an error.
func (e *Engine) SearchBooks(query string, opts Options) []*library.Book {
	return e.search(query, opts, true)
}

func (e *Engine) search(query string, opts Options, record bool) []*library.Book {
	res := library.ValidateSearchQuery(query)
	if !res.Valid {
		e.log.Warn("invalid search query", "query", query, "err", res.Error)
		return []*library.Book{}
	}
	q := res.Query
	if record {
		e.addToHistory(q)
	}

	base := e.lib.Filtered()
	if q == "" {
		return base
	}

	match, err := e.matcher(q, opts)
	if err != nil {
		e.log.Warn("invalid search pattern", "query", q, "err", err)
		return []*library.Book{}
	}
	out := make([]*library.Book, 0, len(base))
	for _, b := range base {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

// matcher builds the per-book predicate for a non-empty sanitized query.
func (e *Engine) matcher(q string, opts Options) (func(*library.Book) bool, error) {
	if opts.UseRegex {
		p, err := e.compile(q, opts.CaseInsensitive)
		if err != nil {
			return nil, err
		}
		return func(b *library.Book) bool { return p.MatchString(Haystack(b)) }, nil
	}
	return textMatcher(q, opts.CaseInsensitive), nil
}

func textMatcher(term string, caseInsensitive bool) func(*library.Book) bool {
	if caseInsensitive {
		term = fold(term)
	}
	return func(b *library.Book) bool {
		h := Haystack(b)
		if caseInsensitive {
			h = fold(h)
		}
		return strings.Contains(h, term)
	}
}

// Haystack joins the searchable fields of b with single spaces: title,
// author, ISBN, notes, then every tag. Regex anchors apply to this whole string.
func Haystack(b *library.Book) string {
	parts := make([]string, 0, 4+len(b.Tags))
	parts = append(parts, b.Title, b.Author, b.ISBN, b.Notes)
	parts = append(parts, b.Tags...)
	return strings.Join(parts, " ")
}

// SetFilter makes status the active filter and returns the new filter view.
// Unknown values leave the filter unchanged.
func (e *Engine) SetFilter(status string) ([]*library.Book, error) {
	f, err := library.ParseFilter(status)
	if err != nil {
		e.log.Warn("invalid filter", "filter", status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, status)
	}
	e.lib.SetFilter(f)
	return e.lib.Filtered(), nil
}

// ActiveFilter returns the filter SearchBooks scans.
func (e *Engine) ActiveFilter() library.Filter {
	return e.lib.Filter()
}

// FilteredBooks returns the active filter view.
func (e *Engine) FilteredBooks() []*library.Book {
	return e.lib.Filtered()
}

// History returns the remembered queries, most recent first.
func (e *Engine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.history...)
}

// ClearHistory forgets every remembered query.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.saveHistoryLocked()
	e.mu.Unlock()
}

func (e *Engine) addToHistory(q string) {
	if q == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	// Repeats differing only in case share one slot; the latest spelling wins.
	key := fold(q)
	next := make([]string, 0, HistoryCapacity)
	next = append(next, q)
	for _, h := range e.history {
		if fold(h) != key {
			next = append(next, h)
		}
	}
	e.history = trimHistory(next)
	e.saveHistoryLocked()
}

func (e *Engine) saveHistoryLocked() {
	if e.store == nil {
		return
	}
	if err := e.store.SaveHistory(context.Background(), e.history); err != nil {
		e.log.Warn("save search history failed", "err", err)
	}
}

func trimHistory(h []string) []string {
	if len(h) > HistoryCapacity {
		h = h[:HistoryCapacity]
	}
	return h
}
