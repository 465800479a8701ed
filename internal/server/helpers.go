// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// envelope is the top-level JSON object of every response, e.g.
// {"book": {...}} or {"books": [...], "metadata": {...}}.
type envelope map[string]any

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// readString returns the query value for key, or def when absent or empty.
func readString(qs url.Values, key, def string) string {
	s := qs.Get(key)
	if s == "" {
		return def
	}
	return s
}

// readInt returns the integer query value for key, or def when absent or
// unparseable.
func readInt(qs url.Values, key string, def int) int {
	s := qs.Get(key)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// readBool accepts the strconv.ParseBool spellings; anything else is def.
func readBool(qs url.Values, key string, def bool) bool {
	s := qs.Get(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
