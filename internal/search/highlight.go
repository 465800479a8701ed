// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"regexp"
	"strings"
)

// Default highlight markers.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// HighlightMatches wraps every non-empty match of pattern in text with the
// default markers. Text is returned unchanged when pattern is blank or is an
// invalid regex.
func HighlightMatches(text, pattern string, useRegex, caseInsensitive bool) string {
	return HighlightFunc(text, pattern, Options{UseRegex: useRegex, CaseInsensitive: caseInsensitive}, markDefault)
}

// HighlightFunc is HighlightMatches with a caller-supplied marker, used by
// terminal renderers that style matches instead of inserting tags.
func HighlightFunc(text, pattern string, opts Options, mark func(string) string) string {
	return highlight(text, pattern, opts, mark, CompilePattern)
}

// Highlight is HighlightFunc backed by the engine's pattern cache.
func (e *Engine) Highlight(text, pattern string, opts Options, mark func(string) string) string {
	if mark == nil {
		mark = markDefault
	}
	return highlight(text, pattern, opts, mark, e.compile)
}

func highlight(text, pattern string, opts Options, mark func(string) string, compile func(string, bool) (*Pattern, error)) string {
	pattern = strings.TrimSpace(pattern)
	if text == "" || pattern == "" {
		return text
	}
	expr := pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(pattern)
	}
	p, err := compile(expr, opts.CaseInsensitive)
	if err != nil {
		return text
	}
	return p.re.ReplaceAllStringFunc(text, func(m string) string {
		if m == "" {
			return m
		}
		return mark(m)
	})
}

func markDefault(m string) string {
	return MarkOpen + m + MarkClose
}
