// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package storage provides the durable key-value blob store behind the catalog.
//
// KVStore is the only abstraction the rest of the module sees. MemoryStore keeps
// everything in process (tests, and the fallback when the database cannot be
// opened); SQLiteStore persists to a single pure-Go SQLite file.
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// KVStore is a minimal byte-oriented key-value store.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns all keys with the given prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// DefaultDBPath returns the default location of the SQLite database,
// honouring XDG_DATA_HOME.
func DefaultDBPath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "arc-bookvault.db"
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "arc-bookvault", "vault.db")
}
