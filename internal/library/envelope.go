// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is written to metadata.version on export.
const EnvelopeVersion = "1.0"

// ErrMalformedEnvelope is returned when an import payload cannot be used.
// The collection is never touched in that case.
var ErrMalformedEnvelope = errors.New("malformed import file")

// Envelope is the export/import file format.
type Envelope struct {
	Books    []EnvelopeBook   `json:"books" yaml:"books"`
	Metadata EnvelopeMetadata `json:"metadata" yaml:"metadata"`
}

// EnvelopeBook is the simplified per-book export shape. Tags are comma-joined.
type EnvelopeBook struct {
	ID        string  `json:"id" yaml:"id"`
	Title     string  `json:"title" yaml:"title"`
	Author    string  `json:"author" yaml:"author"`
	ISBN      string  `json:"isbn" yaml:"isbn"`
	Pages     float64 `json:"pages" yaml:"pages"`
	Tag       string  `json:"tag" yaml:"tag"`
	DateAdded string  `json:"dateAdded" yaml:"dateAdded"`
}

// EnvelopeMetadata describes an export.
type EnvelopeMetadata struct {
	Version      string `json:"version" yaml:"version"`
	CreatedAt    string `json:"createdAt" yaml:"createdAt"`
	LastModified string `json:"lastModified" yaml:"lastModified"`
	TotalBooks   int    `json:"totalBooks" yaml:"totalBooks"`
}

// NewEnvelope builds the export envelope for books.
func NewEnvelope(books []*Book, now time.Time) Envelope {
	stamp := now.UTC().Format(time.RFC3339Nano)
	out := make([]EnvelopeBook, 0, len(books))
	for _, b := range books {
		out = append(out, EnvelopeBook{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			ISBN:      b.ISBN,
			Pages:     b.Pages,
			Tag:       strings.Join(b.Tags, ", "),
			DateAdded: b.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return Envelope{
		Books: out,
		Metadata: EnvelopeMetadata{
			Version:      EnvelopeVersion,
			CreatedAt:    stamp,
			LastModified: stamp,
			TotalBooks:   len(books),
		},
	}
}

// MarshalEnvelope renders the envelope as indented JSON.
func MarshalEnvelope(e Envelope) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// importedBook accepts both the simplified export shape and the full book shape.
// Field types are loose: hand-edited files carry numbers as strings, ISBNs as
// numbers and tags as one comma-joined string.
type importedBook struct {
	ID        looseString `json:"id"`
	Title     looseString `json:"title"`
	Author    looseString `json:"author"`
	ISBN      looseString `json:"isbn"`
	Pages     looseNumber `json:"pages"`
	Status    looseString `json:"status"`
	Rating    looseNumber `json:"rating"`
	Tags      looseTags   `json:"tags"`
	Tag       looseString `json:"tag"`
	Notes     looseString `json:"notes"`
	CreatedAt looseString `json:"createdAt"`
	UpdatedAt looseString `json:"updatedAt"`
	DateAdded looseString `json:"dateAdded"`
}

// looseString is a JSON string or the literal text of a JSON number. Any other
// value decodes as "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = looseString(n)
		return nil
	}
	*s = ""
	return nil
}

// looseNumber is a JSON number or a numeric string. Anything else is 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*n = looseNumber(f)
	return nil
}

// looseTags is a JSON array of tags or a comma-joined string. set is false
// when the field is absent, null or an empty string.
type looseTags struct {
	set  bool
	tags []string
}

func (t *looseTags) UnmarshalJSON(data []byte) error {
	var list []looseString
	if err := json.Unmarshal(data, &list); err == nil {
		if list != nil {
			t.set = true
			t.tags = make([]string, len(list))
			for i, tag := range list {
				t.tags[i] = string(tag)
			}
		}
		return nil
	}
	var s looseString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s != "" {
		t.set = true
		t.tags = strings.Split(string(s), ",")
	}
	return nil
}

// ParseEnvelope decodes an import file and normalizes every book in it.
// now stamps books that carry no usable timestamps. Entries left without a
// title or author after normalization are dropped and counted in skipped.
func ParseEnvelope(data []byte, now time.Time) (books []*Book, skipped int, err error) {
	var raw struct {
		Books *[]importedBook `json:"books"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field == "books" {
				return nil, 0, fmt.Errorf("%w: books must be an array of objects", ErrMalformedEnvelope)
			}
			return nil, 0, fmt.Errorf("%w: expected a JSON object, got %s", ErrMalformedEnvelope, typeErr.Value)
		}
		return nil, 0, fmt.Errorf("%w: not valid JSON: %v", ErrMalformedEnvelope, err)
	}
	if raw.Books == nil {
		return nil, 0, fmt.Errorf("%w: missing books array", ErrMalformedEnvelope)
	}

	books = make([]*Book, 0, len(*raw.Books))
	seen := make(map[string]bool, len(*raw.Books))
	for _, ib := range *raw.Books {
		b := normalizeImported(ib, now)
		if b.Title == "" || b.Author == "" {
			skipped++
			continue
		}
		// Ids must stay unique inside the collection.
		for seen[b.ID] {
			b.ID = uuid.NewString()
		}
		seen[b.ID] = true
		books = append(books, b)
	}
	return books, skipped, nil
}

func normalizeImported(ib importedBook, now time.Time) *Book {
	id := strings.TrimSpace(string(ib.ID))
	if id == "" {
		id = uuid.NewString()
	}

	status, err := ParseStatus(strings.TrimSpace(string(ib.Status)))
	if err != nil {
		status = StatusToRead
	}

	tags := ib.Tags.tags
	if !ib.Tags.set && ib.Tag != "" {
		tags = strings.Split(string(ib.Tag), ",")
	}

	pages := max(float64(ib.Pages), 0)

	// Fractional ratings round to the nearest star; out-of-range means unrated.
	rating := int(math.Round(float64(ib.Rating)))
	if !ValidateRating(rating) {
		rating = 0
	}

	created := firstTime(now, string(ib.CreatedAt), string(ib.DateAdded))
	updated := firstTime(now, string(ib.UpdatedAt))

	return &Book{
		ID:        id,
		Title:     NormalizeText(string(ib.Title)),
		Author:    NormalizeText(string(ib.Author)),
		Status:    status,
		ISBN:      strings.TrimSpace(string(ib.ISBN)),
		Tags:      cleanTags(tags),
		Notes:     string(ib.Notes),
		Rating:    rating,
		Pages:     pages,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// firstTime returns the first candidate that parses as a timestamp, else fallback.
func firstTime(fallback time.Time, candidates ...string) time.Time {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, c); err == nil {
			return t
		}
		if t, err := time.ParseInLocation("2006-01-02", c, time.Local); err == nil {
			return t
		}
	}
	return fallback
}

// ImportPlan is what the user confirms before ImportAll replaces the collection.
type ImportPlan struct {
	Current  int
	Incoming int
	Skipped  int
	Books    []*Book
}

// NewImportPlan describes replacing a collection of size current with books.
// skipped counts file entries that were dropped while parsing.
func NewImportPlan(current int, books []*Book, skipped int) ImportPlan {
	return ImportPlan{Current: current, Incoming: len(books), Skipped: skipped, Books: books}
}

// Message is the confirmation prompt naming both counts.
func (p ImportPlan) Message() string {
	var skipped string
	if p.Skipped > 0 {
		skipped = fmt.Sprintf("Skipping %d entries without a title or author.\n", p.Skipped)
	}
	return fmt.Sprintf("Found %d books to import.\n\n"+
		"Current library: %d books\n"+
		"Importing: %d books\n"+
		"%s\n"+
		"Your current library will be replaced by the imported books.",
		p.Incoming, p.Current, p.Incoming, skipped)
}
