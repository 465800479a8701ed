// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func exerciseKV(t *testing.T, kv KVStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: got %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "vault:books", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "vault:setting:theme", []byte("dark")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "other:key", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := kv.Get(ctx, "vault:setting:theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "dark" {
		t.Fatalf("Get: got %q, want %q", got, "dark")
	}

	// Overwrite is an upsert.
	if err := kv.Set(ctx, "vault:setting:theme", []byte("notebook")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, "vault:setting:theme")
	if string(got) != "notebook" {
		t.Fatalf("Get after overwrite: got %q", got)
	}

	keys, err := kv.Keys(ctx, "vault:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "vault:books" || keys[1] != "vault:setting:theme" {
		t.Fatalf("Keys: got %v", keys)
	}

	if err := kv.Delete(ctx, "vault:books"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "vault:books"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: got %v", err)
	}
	// Deleting an absent key is not an error.
	if err := kv.Delete(ctx, "vault:books"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	kv := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	_ = kv.Set(ctx, "k", buf)
	buf[0] = 'z'
	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	kv, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "nested", "vault.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	ctx := context.Background()

	kv, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	if err := kv.Set(ctx, "vault:books", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kv.Close()

	kv2, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()
	got, err := kv2.Get(ctx, "vault:books")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("Get after reopen: got %q", got)
	}
}
