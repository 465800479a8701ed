// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

const didYouMeanLimit = 3

func (s *Server) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	filter, err := library.ParseFilter(readString(qs, "status", string(library.FilterAll)))
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	books, err := sortBooks(s.lib.GetByStatus(filter), qs)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	data := envelope{"books": books, "metadata": envelope{"total": len(books), "status": filter}}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	book := s.lib.Get(id)
	if book == nil {
		s.notFoundResponse(w, r)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"book": book}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// searchHandler runs a search over the whole collection, then narrows it to
// the requested status. The engine's shared filter is never changed here.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	query := qs.Get("q")
	opts := search.Options{
		UseRegex:        readBool(qs, "regex", s.defaults.UseRegex),
		CaseInsensitive: readBool(qs, "ci", s.defaults.CaseInsensitive),
	}

	res := library.ValidateSearchQuery(query)
	if !res.Valid {
		s.badRequestResponse(w, r, errors.New(res.Error))
		return
	}
	if opts.UseRegex && res.Query != "" {
		if p := library.ValidateRegexPattern(res.Query, opts.CaseInsensitive); !p.Valid {
			s.badRequestResponse(w, r, errors.New(p.Error))
			return
		}
	}
	filter, err := library.ParseFilter(readString(qs, "status", string(library.FilterAll)))
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	matched := s.engine.SearchBooks(query, opts)
	books := make([]*library.Book, 0, len(matched))
	for _, b := range matched {
		if filter.Matches(b.Status) {
			books = append(books, b)
		}
	}
	if books, err = sortBooks(books, qs); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	data := envelope{
		"books": books,
		"metadata": envelope{
			"query":            res.Query,
			"regex":            opts.UseRegex,
			"case_insensitive": opts.CaseInsensitive,
			"status":           filter,
			"total":            len(books),
		},
	}
	if len(books) == 0 && res.Query != "" {
		data["did_you_mean"] = s.engine.DidYouMean(res.Query, didYouMeanLimit)
	}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	suggestions := s.engine.GetSearchSuggestions(r.URL.Query().Get("q"))
	if err := s.writeJSON(w, http.StatusOK, envelope{"suggestions": suggestions}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, envelope{"history": s.engine.History()}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	data := envelope{
		"stats":  s.lib.Stats(s.now()),
		"search": s.engine.SearchStats(),
	}
	if err := s.writeJSON(w, http.StatusOK, data, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) quickHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, envelope{"quick": s.engine.GetQuickFilters()}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) duplicatesHandler(w http.ResponseWriter, r *http.Request) {
	threshold := library.DefaultDuplicateThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 1 {
			s.badRequestResponse(w, r, errors.New("threshold must be a number between 0 and 1"))
			return
		}
		threshold = t
	}
	pairs := library.FindDuplicates(s.lib.GetAll(), threshold)
	if err := s.writeJSON(w, http.StatusOK, envelope{"duplicates": pairs}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// exportHandler serves the import-compatible envelope as a download.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := library.MarshalEnvelope(library.NewEnvelope(s.lib.GetAll(), s.now()))
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="bookvault-export.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.logError(r, err)
	}
}

// sortBooks applies the optional sort and order query parameters.
func sortBooks(books []*library.Book, qs url.Values) ([]*library.Book, error) {
	by := qs.Get("sort")
	if by == "" {
		return books, nil
	}
	field, err := search.ParseSortField(by)
	if err != nil {
		return nil, err
	}
	order, err := search.ParseSortOrder(readString(qs, "order", string(search.Asc)))
	if err != nil {
		return nil, err
	}
	return search.SortBooks(books, field, order), nil
}
