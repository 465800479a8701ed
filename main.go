// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mtreilly/arc-bookvault/internal/cmd"
	"github.com/mtreilly/arc-bookvault/internal/config"
	"github.com/mtreilly/arc-bookvault/internal/storage"
)

func main() {
	root := cmd.NewRootCmd(&cmd.App{OpenKV: openKV})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openKV selects the storage backend. If SQLite cannot be opened (missing
// directory, corruption, permissions) the tool keeps working on an in-memory
// store without persistence.
func openKV(cfg *config.Config, log *slog.Logger) (storage.KVStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil

	case config.StorageSQLite:
		kv, err := storage.OpenSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Warn("cannot open SQLite database, falling back to in-memory store (no persistence)",
				"path", cfg.DBPath, "err", err)
			return storage.NewMemoryStore(), nil
		}
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q (choose %s, %s)", cfg.Storage, config.StorageSQLite, config.StorageMemory)
}
