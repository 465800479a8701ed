// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/config"
	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/logging"
	"github.com/mtreilly/arc-bookvault/internal/search"
	"github.com/mtreilly/arc-bookvault/internal/storage"
)

// OpenKVFunc selects and opens the storage backend for cfg.
type OpenKVFunc func(cfg *config.Config, log *slog.Logger) (storage.KVStore, error)

// App carries the dependencies shared by every command. Config and Log may be
// preset; anything left nil is built from the loaded configuration when a
// command runs.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	OpenKV OpenKVFunc
	Now    func() time.Time

	configPath string

	kv     storage.KVStore
	store  *library.KVPersistence
	lib    *library.Library
	engine *search.Engine
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// setup loads configuration and opens the catalog once per process.
func (a *App) setup() error {
	if a.lib != nil {
		return nil
	}
	if a.Config == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Log == nil {
		log, err := logging.New(os.Stderr, a.Config.Log.Level, a.Config.Log.Format)
		if err != nil {
			return err
		}
		a.Log = log
	}
	if a.OpenKV == nil {
		return errors.New("no storage backend configured")
	}

	kv, err := a.OpenKV(a.Config, a.Log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.kv = kv
	a.store = library.NewKVPersistence(kv)

	lib, err := library.Open(a.store, library.WithLogger(a.Log), library.WithClock(a.now))
	if err != nil {
		return err
	}
	a.lib = lib

	eng, err := search.NewEngine(lib, search.WithHistoryStore(a.store), search.WithLogger(a.Log))
	if err != nil {
		return err
	}
	a.engine = eng
	return nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}

func (a *App) searchOptions(cmd *cobra.Command, regex, caseSensitive bool) search.Options {
	opts := search.Options{
		UseRegex:        a.Config.Search.Regex,
		CaseInsensitive: a.Config.Search.CaseInsensitive,
	}
	if cmd.Flags().Changed("regex") {
		opts.UseRegex = regex
	}
	if cmd.Flags().Changed("case-sensitive") {
		opts.CaseInsensitive = !caseSensitive
	}
	return opts
}

// resolveBook finds a book by full id or by a unique id prefix, so the short
// ids shown in tables can be typed back.
func (a *App) resolveBook(ref string) (*library.Book, error) {
	if b := a.lib.Get(ref); b != nil {
		return b, nil
	}
	var match *library.Book
	for _, b := range a.lib.GetAll() {
		if !strings.HasPrefix(b.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("id prefix %q is ambiguous", ref)
		}
		match = b
	}
	if match == nil {
		return nil, fmt.Errorf("book not found: %s", ref)
	}
	return match, nil
}

// softFail reports a change that was kept in memory but not saved. The
// command still succeeds.
func softFail(w io.Writer, err error) error {
	if errors.Is(err, library.ErrNotPersisted) {
		fmt.Fprintf(w, "Warning: %v\n", err)
		return nil
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
