// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Routes returns the router wrapped in middleware, outermost first:
// recoverPanic, logRequests, rateLimit.
//
//	GET /                  browser front page
//	GET /v1/books          list books (status, sort, order)
//	GET /v1/books/:id      one book
//	GET /v1/search         text or regex search (q, regex, ci, status, sort, order)
//	GET /v1/suggestions    titles, authors and tags containing q
//	GET /v1/history        recent searches
//	GET /v1/stats          dashboard figures
//	GET /v1/quick          quick filter views
//	GET /v1/duplicates     likely duplicate pairs (threshold)
//	GET /v1/export         JSON export envelope
func (s *Server) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", s.indexHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books", s.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", s.showBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/search", s.searchHandler)
	router.HandlerFunc(http.MethodGet, "/v1/suggestions", s.suggestionsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/history", s.historyHandler)
	router.HandlerFunc(http.MethodGet, "/v1/stats", s.statsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/quick", s.quickHandler)
	router.HandlerFunc(http.MethodGet, "/v1/duplicates", s.duplicatesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/export", s.exportHandler)

	return s.recoverPanic(s.logRequests(s.rateLimit(router)))
}
