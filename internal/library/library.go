// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotPersisted wraps a save failure. The in-memory change it accompanies
// has still been applied.
var ErrNotPersisted = errors.New("change kept in memory but not persisted")

// Persistence loads and saves the whole book collection.
type Persistence interface {
	LoadBooks(ctx context.Context) ([]*Book, error)
	SaveBooks(ctx context.Context, books []*Book) error
}

// Library owns the in-memory book collection and the active status filter.
// Every mutation is written through to Persistence immediately. Readers only
// ever receive copies.
type Library struct {
	mu     sync.RWMutex
	books  []*Book
	filter Filter
	store  Persistence
	log    *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(lib *Library) { lib.now = now }
}

// WithIDGenerator overrides the id source, for tests.
func WithIDGenerator(gen func() string) Option {
	return func(lib *Library) { lib.newID = gen }
}

// Open loads the collection from p and returns a Library with the filter set to all.
func Open(p Persistence, opts ...Option) (*Library, error) {
	l := &Library{
		filter: FilterAll,
		store:  p,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory collection with what Persistence holds.
func (l *Library) Reload() error {
	books, err := l.store.LoadBooks(context.Background())
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}
	l.mu.Lock()
	l.books = books
	l.mu.Unlock()
	return nil
}

// Add validates in against the collection, then creates, stores and returns
// the new book. A *ValidationError means nothing was added. An error wrapping
// ErrNotPersisted comes with a non-nil book: the add happened in memory.
func (l *Library) Add(in BookInput) (*Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res := ValidateBook(in, l.books, ""); !res.Valid {
		return nil, &ValidationError{Result: res}
	}

	book := NewBook(in, l.uniqueID(), l.now())
	l.books = append(l.books, book)
	return book.Clone(), l.persist("add", book.ID)
}

// Update merges patch into the book with id. It returns (nil, nil) if no such book exists.
// The caller validates the merged result (see BookPatch.ApplyTo).
func (l *Library) Update(id string, patch BookPatch) (*Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	b := l.books[i]
	patch.apply(b)
	b.UpdatedAt = l.now()
	return b.Clone(), l.persist("update", id)
}

// Delete removes the book with id if present. The collection is saved either way.
func (l *Library) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOf(id); i >= 0 {
		l.books = append(l.books[:i:i], l.books[i+1:]...)
	}
	return l.persist("delete", id)
}

// Get returns a copy of the book with id, or nil.
func (l *Library) Get(id string) *Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.books[i].Clone()
	}
	return nil
}

// GetAll returns a copy of the collection in insertion order.
func (l *Library) GetAll() []*Book {
	return l.GetByStatus(FilterAll)
}

// GetByStatus returns copies of the books passing f.
func (l *Library) GetByStatus(f Filter) []*Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Book, 0, len(l.books))
	for _, b := range l.books {
		if f.Matches(b.Status) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Len is the number of books in the collection.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.books)
}

// SetFilter records the active filter. Values are not checked here.
func (l *Library) SetFilter(f Filter) {
	l.mu.Lock()
	l.filter = f
	l.mu.Unlock()
}

// Filter returns the active filter.
func (l *Library) Filter() Filter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// Filtered returns the books passing the active filter.
func (l *Library) Filtered() []*Book {
	return l.GetByStatus(l.Filter())
}

// ImportAll replaces the whole collection with books and saves it.
// Nothing is merged. Callers confirm with the user first (see ImportPlan).
func (l *Library) ImportAll(books []*Book) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]*Book, 0, len(books))
	for _, b := range books {
		next = append(next, b.Clone())
	}
	l.books = next
	return l.persist("import", "")
}

func (l *Library) indexOf(id string) int {
	for i, b := range l.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (l *Library) uniqueID() string {
	for {
		id := l.newID()
		if id != "" && l.indexOf(id) < 0 {
			return id
		}
	}
}

// persist must be called with l.mu held.
func (l *Library) persist(op, id string) error {
	snapshot := make([]*Book, len(l.books))
	copy(snapshot, l.books)
	if err := l.store.SaveBooks(context.Background(), snapshot); err != nil {
		l.log.Warn("save books failed", "op", op, "id", id, "err", err)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}
