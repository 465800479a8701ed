// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != StorageSQLite || cfg.Log.Level != "warn" || cfg.Serve.Port != 8080 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if !cfg.Search.Regex || !cfg.Search.CaseInsensitive {
		t.Fatalf("search defaults = %+v", cfg.Search)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("arc-bookvault", "vault.db")) {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.File != "" {
		t.Fatalf("File = %q, want none", cfg.File)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "vault.yaml")
	data := "storage: memory\nlog:\n  level: debug\nserve:\n  port: 9090\nsearch:\n  regex: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("ARC_BOOKVAULT_SERVE_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != StorageMemory || cfg.Log.Level != "debug" || cfg.Search.Regex {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Serve.Port != 7070 {
		t.Fatalf("env should override file: port = %d", cfg.Serve.Port)
	}
	if cfg.File != path {
		t.Fatalf("File = %q", cfg.File)
	}
}

func TestLoadDefaultDir(t *testing.T) {
	isolate(t)
	dir := DefaultDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  format: json\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("explicit missing file should fail")
	}

	t.Setenv("ARC_BOOKVAULT_STORAGE", "postgres")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "storage") {
		t.Fatalf("bad storage err = %v", err)
	}
}

func TestRateLimitValidation(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Serve.RateLimit != 20 || cfg.Serve.Burst != 40 {
		t.Fatalf("rate defaults = %v/%d", cfg.Serve.RateLimit, cfg.Serve.Burst)
	}

	t.Setenv("ARC_BOOKVAULT_SERVE_RATE_LIMIT", "-1")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "rate_limit") {
		t.Fatalf("negative rate err = %v", err)
	}

	t.Setenv("ARC_BOOKVAULT_SERVE_RATE_LIMIT", "5")
	t.Setenv("ARC_BOOKVAULT_SERVE_BURST", "0")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "burst") {
		t.Fatalf("zero burst err = %v", err)
	}

	t.Setenv("ARC_BOOKVAULT_SERVE_RATE_LIMIT", "0")
	if _, err := Load(""); err != nil {
		t.Fatalf("disabled limiter should not need a burst: %v", err)
	}
}

func TestYAML(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	for _, want := range []string{"storage: sqlite", "case_insensitive: true", "port: 8080"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
}
