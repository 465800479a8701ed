// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mtreilly/arc-bookvault/internal/storage"
)

// failingPersistence loads fine but refuses every save while fail is set.
type failingPersistence struct {
	fail  bool
	saves int
}

func (f *failingPersistence) LoadBooks(context.Context) ([]*Book, error) { return nil, nil }

func (f *failingPersistence) SaveBooks(context.Context, []*Book) error {
	f.saves++
	if f.fail {
		return errors.New("disk full")
	}
	return nil
}

func newTestLibrary(t *testing.T) (*Library, *KVPersistence, storage.KVStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	p := NewKVPersistence(kv)
	n := 0
	lib, err := Open(p,
		WithIDGenerator(func() string { n++; return fmt.Sprintf("book-%d", n) }),
		WithClock(func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return lib, p, kv
}

func mustAdd(t *testing.T, lib *Library, in BookInput) *Book {
	t.Helper()
	b, err := lib.Add(in)
	if err != nil {
		t.Fatalf("Add(%q): %v", in.Title, err)
	}
	return b
}

func TestLibraryCRUD(t *testing.T) {
	lib, p, _ := newTestLibrary(t)

	b := mustAdd(t, lib, BookInput{
		Title:  "  The  Dispossessed ",
		Author: "Ursula K. Le Guin",
		Status: "to-read",
		ISBN:   "0060512757",
		Tags:   []string{" sf ", "anarchism", "sf"},
		Pages:  "387",
	})
	if b.ID != "book-1" {
		t.Fatalf("ID = %q", b.ID)
	}
	if b.Title != "The Dispossessed" {
		t.Fatalf("Title not normalized: %q", b.Title)
	}
	if len(b.Tags) != 2 || b.Pages != 387 {
		t.Fatalf("Tags = %q Pages = %v", b.Tags, b.Pages)
	}
	if b.CreatedAt.IsZero() || !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Fatal("timestamps not set")
	}

	// Written through.
	stored, err := p.LoadBooks(context.Background())
	if err != nil || len(stored) != 1 {
		t.Fatalf("LoadBooks: %v, %d books", err, len(stored))
	}

	status := StatusReading
	rating := 5
	updated, err := lib.Update(b.ID, BookPatch{Status: &status, Rating: &rating})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusReading || updated.Rating != 5 {
		t.Fatalf("Update not applied: %+v", updated)
	}
	if updated.Title != "The Dispossessed" || updated.ISBN != "0060512757" {
		t.Fatal("Update changed keys absent from the patch")
	}
	if !updated.CreatedAt.Equal(b.CreatedAt) || updated.ID != b.ID {
		t.Fatal("Update must preserve id and createdAt")
	}

	missing, err := lib.Update("nope", BookPatch{Status: &status})
	if missing != nil || err != nil {
		t.Fatalf("Update unknown id = %v, %v; want nil, nil", missing, err)
	}

	if got := lib.Get(b.ID); got == nil || got.Rating != 5 {
		t.Fatalf("Get = %+v", got)
	}
	if err := lib.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if lib.Get(b.ID) != nil {
		t.Fatal("book still present after delete")
	}
	stored, _ = p.LoadBooks(context.Background())
	if len(stored) != 0 {
		t.Fatalf("persisted copy still has %d books", len(stored))
	}
}

func TestLibraryAddRejectsInvalid(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Jane Doe", Status: "read"})

	_, err := lib.Add(BookInput{Title: "B", Author: "John Doe", Status: "read"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add same surname: got %v, want *ValidationError", err)
	}
	if verr.Result.Errors[0] != "A book by this author already exists" {
		t.Fatalf("Errors = %q", verr.Result.Errors)
	}
	if lib.Len() != 1 {
		t.Fatalf("rejected book was added: Len = %d", lib.Len())
	}
}

func TestLibraryISBNDuplicateLifecycle(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	first := mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read", ISBN: "9780316246620"})

	if !IsISBNDuplicate("9780316246620", "", lib.GetAll()) {
		t.Fatal("duplicate ISBN not detected")
	}
	if err := lib.Delete(first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if IsISBNDuplicate("9780316246620", "", lib.GetAll()) {
		t.Fatal("ISBN still reported after the conflicting book was deleted")
	}
}

func TestLibraryReadersGetCopies(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read", Tags: []string{"sf"}})

	all := lib.GetAll()
	all[0].Title = "mutated"
	all[0].Tags[0] = "mutated"
	again := lib.GetAll()
	if again[0].Title != "A" || again[0].Tags[0] != "sf" {
		t.Fatal("caller mutation leaked into the collection")
	}
}

func TestLibraryDeleteMissingIsNoop(t *testing.T) {
	lib, _, kv := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read"})

	before, _ := kv.Get(context.Background(), "arc-bookvault:books")
	if err := lib.Delete("does-not-exist"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	after, _ := kv.Get(context.Background(), "arc-bookvault:books")
	if string(before) != string(after) {
		t.Fatalf("persisted copy changed:\n%s\n%s", before, after)
	}
	if lib.Len() != 1 {
		t.Fatal("collection changed")
	}
}

func TestLibrarySoftPersistenceFailure(t *testing.T) {
	fp := &failingPersistence{}
	lib, err := Open(fp)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fp.fail = true

	b, err := lib.Add(BookInput{Title: "A", Author: "Ann Leckie", Status: "read"})
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("Add: got %v, want ErrNotPersisted", err)
	}
	if b == nil || lib.Len() != 1 {
		t.Fatal("in-memory add must survive a failed save")
	}

	if err := lib.Delete(b.ID); !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("Delete: got %v", err)
	}
	if lib.Len() != 0 {
		t.Fatal("in-memory delete must survive a failed save")
	}
	if fp.saves != 2 {
		t.Fatalf("saves = %d, want 2 (no retries)", fp.saves)
	}
}

func TestLibraryFilterAndStatus(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read"})
	mustAdd(t, lib, BookInput{Title: "B", Author: "Iain Banks", Status: "reading"})
	mustAdd(t, lib, BookInput{Title: "C", Author: "Octavia Butler", Status: "read"})

	if lib.Filter() != FilterAll {
		t.Fatalf("initial filter = %q", lib.Filter())
	}
	if n := len(lib.GetByStatus(FilterRead)); n != 2 {
		t.Fatalf("GetByStatus(read) = %d", n)
	}
	if n := len(lib.GetByStatus(FilterAll)); n != 3 {
		t.Fatalf("GetByStatus(all) = %d", n)
	}
	lib.SetFilter(FilterReading)
	if got := lib.Filtered(); len(got) != 1 || got[0].Title != "B" {
		t.Fatalf("Filtered = %v", got)
	}
}

func TestLibraryImportAllReplaces(t *testing.T) {
	lib, p, _ := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read"})

	incoming := []*Book{
		{ID: "x", Title: "X", Author: "Xu", Status: StatusToRead, Tags: []string{}},
		{ID: "y", Title: "Y", Author: "Yi", Status: StatusRead, Tags: []string{}},
	}
	if err := lib.ImportAll(incoming); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if lib.Len() != 2 || lib.Get("x") == nil {
		t.Fatalf("ImportAll did not replace: %d books", lib.Len())
	}
	stored, _ := p.LoadBooks(context.Background())
	data, _ := json.Marshal(stored)
	if len(stored) != 2 {
		t.Fatalf("persisted: %s", data)
	}
}

func TestLibraryReload(t *testing.T) {
	lib, _, kv := newTestLibrary(t)
	mustAdd(t, lib, BookInput{Title: "A", Author: "Ann Leckie", Status: "read"})

	other, err := Open(NewKVPersistence(kv))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if other.Len() != 1 {
		t.Fatalf("second library sees %d books", other.Len())
	}
}
