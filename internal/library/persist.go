// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mtreilly/arc-bookvault/internal/storage"
)

// Setting defaults, matching a fresh install.
const (
	DefaultTheme        = "notebook"
	DefaultItemsPerPage = 20
)

// Settings are the scalar user preferences kept next to the collection.
type Settings struct {
	Theme        string `json:"theme" yaml:"theme"`
	ItemsPerPage int    `json:"items_per_page" yaml:"items_per_page"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{Theme: DefaultTheme, ItemsPerPage: DefaultItemsPerPage}
}

// KVPersistence stores the collection, the search history and the settings
// in a storage.KVStore. The collection is one JSON blob; each setting is its
// own key.
type KVPersistence struct {
	kv storage.KVStore
}

// NewKVPersistence wraps kv.
func NewKVPersistence(kv storage.KVStore) *KVPersistence {
	return &KVPersistence{kv: kv}
}

// generateKey creates namespaced keys for the different entries.
func (p *KVPersistence) generateKey(prefix, id string) string {
	if id == "" {
		return fmt.Sprintf("arc-bookvault:%s", prefix)
	}
	return fmt.Sprintf("arc-bookvault:%s:%s", prefix, id)
}

func (p *KVPersistence) LoadBooks(ctx context.Context) ([]*Book, error) {
	data, err := p.kv.Get(ctx, p.generateKey("books", ""))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []*Book{}, nil
		}
		return nil, err
	}
	var books []*Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("unmarshal books: %w", err)
	}
	for _, b := range books {
		if b.Tags == nil {
			b.Tags = []string{}
		}
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

func (p *KVPersistence) SaveBooks(ctx context.Context, books []*Book) error {
	if books == nil {
		books = []*Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshal books: %w", err)
	}
	if err := p.kv.Set(ctx, p.generateKey("books", ""), data); err != nil {
		return fmt.Errorf("set books: %w", err)
	}
	return nil
}

// LoadHistory returns the saved search history, most recent first.
// An unreadable entry is treated as empty history.
func (p *KVPersistence) LoadHistory(ctx context.Context) ([]string, error) {
	data, err := p.kv.Get(ctx, p.generateKey("search-history", ""))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var history []string
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, nil
	}
	return history, nil
}

func (p *KVPersistence) SaveHistory(ctx context.Context, history []string) error {
	if history == nil {
		history = []string{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return p.kv.Set(ctx, p.generateKey("search-history", ""), data)
}

// LoadSettings reads each setting independently, falling back to its default.
func (p *KVPersistence) LoadSettings(ctx context.Context) (Settings, error) {
	s := DefaultSettings()

	theme, err := p.kv.Get(ctx, p.generateKey("setting", "theme"))
	switch {
	case err == nil && len(theme) > 0:
		s.Theme = string(theme)
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return s, fmt.Errorf("get theme: %w", err)
	}

	perPage, err := p.kv.Get(ctx, p.generateKey("setting", "items-per-page"))
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(string(perPage)); convErr == nil && n > 0 {
			s.ItemsPerPage = n
		}
	case !errors.Is(err, storage.ErrNotFound):
		return s, fmt.Errorf("get items-per-page: %w", err)
	}

	return s, nil
}

func (p *KVPersistence) SaveSettings(ctx context.Context, s Settings) error {
	if err := p.kv.Set(ctx, p.generateKey("setting", "theme"), []byte(s.Theme)); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	if err := p.kv.Set(ctx, p.generateKey("setting", "items-per-page"), []byte(strconv.Itoa(s.ItemsPerPage))); err != nil {
		return fmt.Errorf("set items-per-page: %w", err)
	}
	return nil
}
