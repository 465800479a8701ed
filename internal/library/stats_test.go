// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"testing"
	"time"

	"github.com/mtreilly/arc-bookvault/internal/storage"
)

func libraryWith(t *testing.T, books ...*Book) *Library {
	t.Helper()
	lib, err := Open(NewKVPersistence(storage.NewMemoryStore()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := lib.ImportAll(books); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	return lib
}

func TestTopTagEmpty(t *testing.T) {
	lib := libraryWith(t)
	top := lib.TopTag()
	if top.Count != 0 || top.String() != "None" {
		t.Fatalf("TopTag on empty = %+v (%s)", top, top)
	}
}

func TestTopTagTieGoesToFirstSeen(t *testing.T) {
	lib := libraryWith(t,
		&Book{ID: "1", Tags: []string{"sf", "classic"}},
		&Book{ID: "2", Tags: []string{"classic", "sf"}},
		&Book{ID: "3", Tags: []string{"poetry"}},
	)
	top := lib.TopTag()
	if top.Tag != "sf" || top.Count != 2 {
		t.Fatalf("TopTag = %+v, want sf (2)", top)
	}
	if top.String() != "sf (2)" {
		t.Fatalf("String = %q", top.String())
	}
}

func TestNotesCount(t *testing.T) {
	lib := libraryWith(t,
		&Book{ID: "1", Notes: "loved it"},
		&Book{ID: "2", Notes: "   "},
		&Book{ID: "3"},
	)
	if n := lib.NotesCount(); n != 1 {
		t.Fatalf("NotesCount = %d, want 1", n)
	}
}

func TestLast7Days(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, loc)
	lib := libraryWith(t,
		&Book{ID: "1", CreatedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, loc)},
		&Book{ID: "2", CreatedAt: time.Date(2025, 3, 9, 23, 59, 0, 0, loc)},
		// 2025-03-09 22:30 UTC is 2025-03-10 00:30 local.
		&Book{ID: "3", CreatedAt: time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC)},
		&Book{ID: "4", CreatedAt: time.Date(2025, 3, 4, 0, 0, 0, 0, loc)},
		&Book{ID: "5", CreatedAt: time.Date(2025, 3, 3, 23, 59, 0, 0, loc)},
	)

	days := lib.Last7Days(now)
	if len(days) != 7 {
		t.Fatalf("len = %d", len(days))
	}
	if days[0].Label != "Mar 4" || days[6].Label != "Mar 10" {
		t.Fatalf("labels = %s .. %s", days[0].Label, days[6].Label)
	}
	want := []int{1, 0, 0, 0, 0, 1, 2}
	for i, d := range days {
		if d.Count != want[i] {
			t.Errorf("day %s count = %d, want %d", d.Label, d.Count, want[i])
		}
	}
}

func TestRecentBooks(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lib := libraryWith(t,
		&Book{ID: "old", CreatedAt: base, UpdatedAt: base},
		&Book{ID: "edited", CreatedAt: base, UpdatedAt: base.Add(72 * time.Hour)},
		&Book{ID: "new", CreatedAt: base.Add(24 * time.Hour)},
	)
	got := lib.RecentBooks(2)
	if len(got) != 2 || got[0].ID != "edited" || got[1].ID != "new" {
		t.Fatalf("RecentBooks = %v, %v", got[0].ID, got[1].ID)
	}
}

func TestStats(t *testing.T) {
	lib := libraryWith(t,
		&Book{ID: "1", Status: StatusRead, Tags: []string{"sf"}, Notes: "n"},
		&Book{ID: "2", Status: StatusToRead},
	)
	s := lib.Stats(time.Now())
	if s.Total != 2 || s.WithNotes != 1 || s.TopTag.Tag != "sf" {
		t.Fatalf("Stats = %+v", s)
	}
	if s.ByStatus[StatusRead] != 1 || s.ByStatus[StatusReading] != 0 {
		t.Fatalf("ByStatus = %v", s.ByStatus)
	}
}
