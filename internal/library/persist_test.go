// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"testing"

	"github.com/mtreilly/arc-bookvault/internal/storage"
)

func TestKVPersistenceSettings(t *testing.T) {
	kv := storage.NewMemoryStore()
	p := NewKVPersistence(kv)
	ctx := context.Background()

	s, err := p.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s != DefaultSettings() {
		t.Fatalf("fresh settings = %+v, want defaults", s)
	}

	if err := p.SaveSettings(ctx, Settings{Theme: "dark", ItemsPerPage: 50}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	// Each setting is its own scalar entry.
	raw, err := kv.Get(ctx, "arc-bookvault:setting:items-per-page")
	if err != nil || string(raw) != "50" {
		t.Fatalf("items-per-page entry = %q, %v", raw, err)
	}
	s, _ = p.LoadSettings(ctx)
	if s.Theme != "dark" || s.ItemsPerPage != 50 {
		t.Fatalf("LoadSettings = %+v", s)
	}

	_ = kv.Set(ctx, "arc-bookvault:setting:items-per-page", []byte("lots"))
	s, _ = p.LoadSettings(ctx)
	if s.ItemsPerPage != DefaultItemsPerPage || s.Theme != "dark" {
		t.Fatalf("garbage items-per-page should fall back alone: %+v", s)
	}
}

func TestKVPersistenceHistory(t *testing.T) {
	kv := storage.NewMemoryStore()
	p := NewKVPersistence(kv)
	ctx := context.Background()

	h, err := p.LoadHistory(ctx)
	if err != nil || len(h) != 0 {
		t.Fatalf("fresh history = %v, %v", h, err)
	}
	if err := p.SaveHistory(ctx, []string{"dune", "le guin"}); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	h, _ = p.LoadHistory(ctx)
	if len(h) != 2 || h[0] != "dune" {
		t.Fatalf("LoadHistory = %v", h)
	}

	_ = kv.Set(ctx, "arc-bookvault:search-history", []byte("{corrupt"))
	h, err = p.LoadHistory(ctx)
	if err != nil || len(h) != 0 {
		t.Fatalf("corrupt history should load empty: %v, %v", h, err)
	}
}

func TestKVPersistenceBooksFreshStore(t *testing.T) {
	p := NewKVPersistence(storage.NewMemoryStore())
	books, err := p.LoadBooks(context.Background())
	if err != nil {
		t.Fatalf("LoadBooks: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Fatalf("LoadBooks on empty store = %v", books)
	}
}
