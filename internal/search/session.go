// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"strings"

	"github.com/mtreilly/arc-bookvault/internal/library"
)

// State is the phase of an interactive search.
type State int

const (
	// StateIdle shows the active filter view.
	StateIdle State = iota
	// StateFiltered shows the results of a non-empty query.
	StateFiltered
)

func (s State) String() string {
	if s == StateFiltered {
		return "filtered"
	}
	return "idle"
}

// Session tracks one interactive search. Clearing the query returns to the
// active filter view, not to the whole collection, and changing the filter
// while a query is active re-runs that query against the new view.
type Session struct {
	engine  *Engine
	opts    Options
	query   string
	state   State
	results []*library.Book
}

// NewSession starts an idle session showing the current filter view.
func NewSession(e *Engine, opts Options) *Session {
	return &Session{engine: e, opts: opts, results: e.FilteredBooks()}
}

// Search moves to StateFiltered for a non-empty query and back to
// StateIdle for a blank one. A non-empty query is recorded in history.
func (s *Session) Search(query string) []*library.Book {
	return s.run(query, true)
}

// Preview is Search without touching history, for search-as-you-type.
func (s *Session) Preview(query string) []*library.Book {
	return s.run(query, false)
}

func (s *Session) run(query string, record bool) []*library.Book {
	s.query = strings.TrimSpace(query)
	if s.query == "" {
		s.state = StateIdle
		s.results = s.engine.FilteredBooks()
		return s.results
	}
	s.state = StateFiltered
	s.results = s.engine.search(s.query, s.opts, record)
	return s.results
}

// SetOptions changes the matching mode and re-runs any active query.
func (s *Session) SetOptions(opts Options) []*library.Book {
	s.opts = opts
	return s.refresh()
}

// SetFilter changes the active filter and refreshes the results.
func (s *Session) SetFilter(status string) ([]*library.Book, error) {
	if _, err := s.engine.SetFilter(status); err != nil {
		return nil, err
	}
	return s.refresh(), nil
}

// Refresh recomputes the results, for example after the collection changed.
func (s *Session) Refresh() []*library.Book {
	return s.refresh()
}

// Clear drops the query and returns to the filter view.
func (s *Session) Clear() []*library.Book {
	return s.Search("")
}

func (s *Session) refresh() []*library.Book {
	if s.state == StateFiltered {
		s.results = s.engine.search(s.query, s.opts, false)
	} else {
		s.results = s.engine.FilteredBooks()
	}
	return s.results
}

// State reports the current phase.
func (s *Session) State() State { return s.state }

// Query returns the active trimmed query.
func (s *Session) Query() string { return s.query }

// Options returns the current matching mode.
func (s *Session) Options() Options { return s.opts }

// Results returns the last computed results.
func (s *Session) Results() []*library.Book { return s.results }
