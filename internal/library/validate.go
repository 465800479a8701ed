// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTagLength is the longest tag accepted, in characters.
const MaxTagLength = 50

var (
	isbn10RX   = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13RX   = regexp.MustCompile(`^\d{13}$`)
	isbnStrip  = regexp.MustCompile(`[-\s]`)
	titleRX    = regexp.MustCompile(`^\S(?:.*\S)?$`)
	numericRX  = regexp.MustCompile(`^(0|[1-9]\d*)(\.\d{1,2})?$`)
	dateRX     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	forbiddenC = "<>{}"
)

// RequiredResult reports which required fields are missing.
type RequiredResult struct {
	Valid   bool
	Missing []string
}

// TagsResult carries sanitized tags or the reason they were rejected.
type TagsResult struct {
	Valid     bool
	Sanitized []string
	Error     string
}

// QueryResult carries a sanitized search query or the reason it was rejected.
type QueryResult struct {
	Valid bool
	Query string
	Error string
}

// PatternResult reports whether a regular expression compiles.
type PatternResult struct {
	Valid bool
	Error string
}

// FieldResult is the outcome of a single-field format check.
type FieldResult struct {
	Valid      bool
	Normalized string
	Error      string
}

// BookResult is the outcome of ValidateBook. Errors belong to a single category.
type BookResult struct {
	Valid  bool
	Errors []string
}

// ValidationError is returned by Library.Add when the input is rejected.
type ValidationError struct {
	Result BookResult
}

func (e *ValidationError) Error() string {
	return "invalid book: " + strings.Join(e.Result.Errors, "; ")
}

// ValidateISBN accepts an empty ISBN, or one that reduces to the ISBN-10 or
// ISBN-13 shape once hyphens and spaces are stripped. Checksums are not verified.
func ValidateISBN(isbn string) bool {
	if isbn == "" {
		return true
	}
	cleaned := isbnStrip.ReplaceAllString(isbn, "")
	switch len(cleaned) {
	case 10:
		return isbn10RX.MatchString(cleaned)
	case 13:
		return isbn13RX.MatchString(cleaned)
	}
	return false
}

// IsISBNDuplicate reports whether a book other than excludeID already has isbn.
func IsISBNDuplicate(isbn, excludeID string, books []*Book) bool {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return false
	}
	for _, b := range books {
		if b.ID != excludeID && b.ISBN == isbn {
			return true
		}
	}
	return false
}

// IsAuthorSurnameDuplicate reports whether a book other than excludeID has an
// author with the same surname. The catalog holds one book per surname.
func IsAuthorSurnameDuplicate(author, excludeID string, books []*Book) bool {
	s := surname(author)
	if s == "" {
		return false
	}
	for _, b := range books {
		if b.ID != excludeID && b.Surname() == s {
			return true
		}
	}
	return false
}

// ValidateRequiredFields checks that title, author and status are non-blank.
func ValidateRequiredFields(in BookInput) RequiredResult {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Author) == "" {
		missing = append(missing, "author")
	}
	if strings.TrimSpace(in.Status) == "" {
		missing = append(missing, "status")
	}
	return RequiredResult{Valid: len(missing) == 0, Missing: missing}
}

// ValidateTags trims every tag and rejects empty, over-long, or markup-bearing ones.
// Duplicates after trimming are dropped from the sanitized list.
func ValidateTags(tags []string) TagsResult {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			return TagsResult{Error: "Tags cannot be empty"}
		}
		if utf8.RuneCountInString(t) > MaxTagLength {
			return TagsResult{Error: fmt.Sprintf("Tag %q is longer than %d characters", t, MaxTagLength)}
		}
		if strings.ContainsAny(t, forbiddenC) {
			return TagsResult{Error: "Tags contain invalid characters. Please remove special characters."}
		}
	}
	return TagsResult{Valid: true, Sanitized: cleanTags(tags)}
}

// ValidateSearchQuery trims the query and rejects markup characters.
// The empty query is valid and means "show the current filter".
func ValidateSearchQuery(query string) QueryResult {
	if strings.ContainsAny(query, forbiddenC) {
		return QueryResult{Error: "Search query contains invalid characters"}
	}
	return QueryResult{Valid: true, Query: strings.TrimSpace(query)}
}

// ValidateRegexPattern reports whether pattern compiles, with the
// case-insensitive flag applied when requested.
func ValidateRegexPattern(pattern string, caseInsensitive bool) PatternResult {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return PatternResult{Error: "Invalid regex pattern: " + err.Error()}
	}
	return PatternResult{Valid: true}
}

// ValidateTitle normalizes whitespace and checks the result is non-empty.
func ValidateTitle(title string) FieldResult {
	normalized := NormalizeText(title)
	if !titleRX.MatchString(normalized) {
		return FieldResult{Error: "Title cannot have leading/trailing spaces or be empty"}
	}
	return FieldResult{Valid: true, Normalized: normalized}
}

// ValidateNumericField accepts an empty value or a non-negative number with at
// most two decimal places.
func ValidateNumericField(value, name string) FieldResult {
	value = strings.TrimSpace(value)
	if value == "" {
		return FieldResult{Valid: true}
	}
	if !numericRX.MatchString(value) {
		return FieldResult{Error: fmt.Sprintf("%s must be a valid number (e.g., 0, 123, 45.67)", name)}
	}
	return FieldResult{Valid: true, Normalized: value}
}

// ValidateDateField accepts an empty value or a YYYY-MM-DD date.
func ValidateDateField(value string) FieldResult {
	if value == "" {
		return FieldResult{Valid: true}
	}
	if !dateRX.MatchString(value) {
		return FieldResult{Error: "Date must be in YYYY-MM-DD format"}
	}
	return FieldResult{Valid: true, Normalized: value}
}

// ValidateRating accepts 0 (unrated) or 1 through 5.
func ValidateRating(rating int) bool {
	return rating >= 0 && rating <= 5
}

// ValidateStatus reports whether s names a known status.
func ValidateStatus(s string) bool {
	_, err := ParseStatus(strings.TrimSpace(s))
	return err == nil
}

// ValidateBook runs the checks in category order: required fields, ISBN
// format, field formats, ISBN uniqueness, surname uniqueness. It stops at the
// first failing category and returns every error from that category.
func ValidateBook(in BookInput, existing []*Book, excludeID string) BookResult {
	if req := ValidateRequiredFields(in); !req.Valid {
		return BookResult{Errors: []string{"Missing required fields: " + strings.Join(req.Missing, ", ")}}
	}

	if !ValidateISBN(in.ISBN) {
		return BookResult{Errors: []string{"Invalid ISBN format. Please enter a valid 10 or 13-digit ISBN."}}
	}

	var errs []string
	if r := ValidateTitle(in.Title); !r.Valid {
		errs = append(errs, r.Error)
	}
	if !ValidateStatus(in.Status) {
		errs = append(errs, fmt.Sprintf("Status must be one of to-read, reading, read (got %q)", in.Status))
	}
	if r := ValidateNumericField(in.Pages, "Pages"); !r.Valid {
		errs = append(errs, r.Error)
	}
	if !ValidateRating(in.Rating) {
		errs = append(errs, "Rating must be between 1 and 5")
	}
	if r := ValidateTags(in.Tags); !r.Valid {
		errs = append(errs, r.Error)
	}
	if len(errs) > 0 {
		return BookResult{Errors: errs}
	}

	if IsISBNDuplicate(in.ISBN, excludeID, existing) {
		return BookResult{Errors: []string{"A book with this ISBN already exists"}}
	}
	if IsAuthorSurnameDuplicate(in.Author, excludeID, existing) {
		return BookResult{Errors: []string{"A book by this author already exists"}}
	}

	return BookResult{Valid: true}
}
