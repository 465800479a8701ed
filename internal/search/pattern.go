// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package search

import (
	"regexp"

	"golang.org/x/text/cases"
)

// Pattern is a compiled user-supplied regular expression.
type Pattern struct {
	raw             string
	caseInsensitive bool
	re              *regexp.Regexp
}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "Invalid regex pattern: " + e.Err.Error()
}

func (e *PatternError) Unwrap() error { return e.Err }

// CompilePattern compiles raw, applying the case-insensitive flag rather than
// folding the pattern text. A bad pattern yields a *PatternError.
func CompilePattern(raw string, caseInsensitive bool) (*Pattern, error) {
	expr := raw
	if caseInsensitive {
		expr = "(?i)" + raw
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}
	return &Pattern{raw: raw, caseInsensitive: caseInsensitive, re: re}, nil
}

// MatchString reports whether the pattern matches anywhere in s.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// String returns the pattern as the user wrote it.
func (p *Pattern) String() string {
	return p.raw
}

type patternKey struct {
	raw             string
	caseInsensitive bool
}

// compile goes through the engine's LRU so repeated keystrokes reuse the same program.
func (e *Engine) compile(raw string, caseInsensitive bool) (*Pattern, error) {
	key := patternKey{raw: raw, caseInsensitive: caseInsensitive}
	if p, ok := e.patterns.Get(key); ok {
		return p, nil
	}
	p, err := CompilePattern(raw, caseInsensitive)
	if err != nil {
		return nil, err
	}
	e.patterns.Add(key, p)
	return p, nil
}

// folder is stateless, so it is shared across goroutines.
var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}
